package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/talent-graph/internal/embedding"
	"github.com/jonathan/talent-graph/internal/types"
)

// ErrNoRootIdentity is returned when a candidate profile is too malformed to
// build a graph from: no stable ID or no name. This is the only hard failure
// in the build path; everything else degrades locally.
var ErrNoRootIdentity = errors.New("candidate profile has no root identity")

// Weight constants for edge construction.
const (
	// skillBaseWeight anchors the skill edge formula:
	// weight = base * proficiency_multiplier * experience_multiplier.
	skillBaseWeight = 0.5
	// toolEdgeWeight is the nominal constant for USES_TOOL edges; tool usage
	// is a binary fact with no proficiency decay.
	toolEdgeWeight = 1.0
	// membershipWeight is used for has/has-not facts (education,
	// publications, awards, experience membership).
	membershipWeight = 1.0
	// fullExperienceYears is the tenure at which experience stops boosting
	// a skill edge.
	fullExperienceYears = 5.0
)

// proficiencyMultipliers maps the ordered proficiency scale to multipliers.
var proficiencyMultipliers = map[types.ProficiencyLevel]float64{
	types.ProficiencyBeginner:     0.3,
	types.ProficiencyIntermediate: 0.6,
	types.ProficiencyAdvanced:     0.8,
	types.ProficiencyExpert:       1.0,
}

// defaultProficiencyMultiplier is used for missing or unknown levels.
const defaultProficiencyMultiplier = 0.6

// Builder constructs capability graphs from candidate profiles. It attaches
// embeddings to competency-eligible nodes in a single batched pass and
// re-applies durable feedback multipliers at build time, so the graph never
// needs to live past one request.
type Builder struct {
	embedder embedding.Service
}

// NewBuilder creates a graph builder backed by the given embedding service.
// A nil embedder is allowed and produces graphs without embeddings.
func NewBuilder(embedder embedding.Service) *Builder {
	return &Builder{embedder: embedder}
}

// Build constructs a fresh capability graph for a candidate profile,
// applying any durable feedback multipliers to the computed edge weights.
// It returns ErrNoRootIdentity for a profile lacking an ID or name.
func (b *Builder) Build(ctx context.Context, profile *types.CandidateProfile, adjustments Adjustments) (*Graph, error) {
	if profile == nil || profile.ID == uuid.Nil || profile.FullName == "" {
		return nil, ErrNoRootIdentity
	}

	g := New()

	rootID := NodeID(NodeCandidate, profile.ID.String())
	g.AddNode(&Node{
		ID:   rootID,
		Type: NodeCandidate,
		Attributes: map[string]any{
			"name":      profile.FullName,
			"entity_id": profile.ID.String(),
		},
	})

	skillNodeIDs := make(map[string]string) // skill UUID -> node ID
	seenEdges := make(map[Key]bool)

	addEdge := func(source, target string, relation Relation, weight float64) {
		key := Key{Source: source, Target: target, Relation: relation}
		if seenEdges[key] {
			return
		}
		seenEdges[key] = true
		g.AddEdge(source, target, relation, weight)
	}

	// Skills: claim edges carry the proficiency/tenure formula. A zero-years
	// claim stays in the graph at weight 0 until corroborated elsewhere.
	for _, skill := range profile.Skills {
		nodeID := NodeID(NodeSkill, skill.ID.String())
		skillNodeIDs[skill.ID.String()] = nodeID
		g.AddNode(&Node{
			ID:   nodeID,
			Type: NodeSkill,
			Attributes: map[string]any{
				"name":        skill.Name,
				"category":    skill.Category,
				"proficiency": string(skill.Proficiency),
				"years":       skill.YearsOfExperience,
				"entity_id":   skill.ID.String(),
			},
			EmbeddingText: skillEmbeddingText(skill),
		})
		addEdge(rootID, nodeID, RelDemonstrates, skillEdgeWeight(skill))
	}

	// Tools become nodes lazily, at their first project reference. A tool no
	// project uses would have no path to the root, and an unreachable node
	// must never surface as evidence.
	toolsByID := make(map[string]types.Tool, len(profile.Tools))
	for _, tool := range profile.Tools {
		toolsByID[tool.ID.String()] = tool
	}
	toolNodeIDs := make(map[string]string)
	toolNode := func(toolID string) (string, bool) {
		if nodeID, ok := toolNodeIDs[toolID]; ok {
			return nodeID, true
		}
		tool, ok := toolsByID[toolID]
		if !ok {
			return "", false
		}
		nodeID := NodeID(NodeTool, tool.ID.String())
		toolNodeIDs[toolID] = nodeID
		g.AddNode(&Node{
			ID:   nodeID,
			Type: NodeTool,
			Attributes: map[string]any{
				"name":      tool.Name,
				"category":  tool.Category,
				"entity_id": tool.ID.String(),
			},
			EmbeddingText: toolEmbeddingText(tool),
		})
		return nodeID, true
	}

	// Projects demonstrate skills and use tools.
	for _, project := range profile.Projects {
		nodeID := NodeID(NodeProject, project.ID.String())
		g.AddNode(&Node{
			ID:   nodeID,
			Type: NodeProject,
			Attributes: map[string]any{
				"name":      project.Title,
				"entity_id": project.ID.String(),
			},
			EmbeddingText: projectEmbeddingText(project),
		})
		addEdge(rootID, nodeID, RelHasProject, membershipWeight)

		for _, skillID := range project.SkillIDs {
			if skillNode, ok := skillNodeIDs[skillID.String()]; ok {
				addEdge(nodeID, skillNode, RelDemonstrates, demonstratedWeight(profile, skillID.String()))
			}
		}
		for _, toolID := range project.ToolIDs {
			if target, ok := toolNode(toolID.String()); ok {
				addEdge(nodeID, target, RelUsesTool, toolEdgeWeight)
			}
		}
	}

	// A skill acquired from a specific project gets a corroborating edge
	// even when the project omits it from its own skill list.
	for _, skill := range profile.Skills {
		if skill.AcquiredFromProjectID == nil {
			continue
		}
		projectNode := NodeID(NodeProject, skill.AcquiredFromProjectID.String())
		if g.Node(projectNode) != nil {
			addEdge(projectNode, skillNodeIDs[skill.ID.String()], RelDemonstrates, skillEdgeWeight(skill))
		}
	}

	// Experiences mirror the project pattern.
	for _, exp := range profile.Experiences {
		nodeID := NodeID(NodeExperience, exp.ID.String())
		g.AddNode(&Node{
			ID:   nodeID,
			Type: NodeExperience,
			Attributes: map[string]any{
				"name":      exp.Role,
				"company":   exp.Company,
				"entity_id": exp.ID.String(),
			},
			EmbeddingText: experienceEmbeddingText(exp),
		})
		addEdge(rootID, nodeID, RelHasExperience, membershipWeight)

		for _, skillID := range exp.SkillIDs {
			if skillNode, ok := skillNodeIDs[skillID.String()]; ok {
				addEdge(nodeID, skillNode, RelDemonstrates, demonstratedWeight(profile, skillID.String()))
			}
		}
	}

	// Education, publications, awards: binary membership facts.
	for _, edu := range profile.Education {
		nodeID := NodeID(NodeEducation, edu.ID.String())
		g.AddNode(&Node{
			ID:   nodeID,
			Type: NodeEducation,
			Attributes: map[string]any{
				"name":      edu.Degree,
				"entity_id": edu.ID.String(),
			},
			EmbeddingText: educationEmbeddingText(edu),
		})
		addEdge(rootID, nodeID, RelHasEducation, membershipWeight)
	}
	for _, pub := range profile.Publications {
		nodeID := NodeID(NodePublication, pub.ID.String())
		g.AddNode(&Node{
			ID:   nodeID,
			Type: NodePublication,
			Attributes: map[string]any{
				"name":      pub.Title,
				"entity_id": pub.ID.String(),
			},
			EmbeddingText: publicationEmbeddingText(pub),
		})
		addEdge(rootID, nodeID, RelHasPublication, membershipWeight)
	}
	for _, award := range profile.Awards {
		nodeID := NodeID(NodeAward, award.ID.String())
		g.AddNode(&Node{
			ID:   nodeID,
			Type: NodeAward,
			Attributes: map[string]any{
				"name":      award.Title,
				"entity_id": award.ID.String(),
			},
			EmbeddingText: awardEmbeddingText(award),
		})
		addEdge(rootID, nodeID, RelHasAward, membershipWeight)
	}

	b.attachEmbeddings(ctx, g)

	// Re-apply durable feedback multipliers to the fresh build.
	for _, e := range g.Edges() {
		if mult, ok := adjustments[e.Key()]; ok {
			e.Weight = Clamp(e.Weight * mult)
		}
	}

	return g, nil
}

// attachEmbeddings embeds every node with embedding text in one batched
// call. A failing backend leaves all embeddings nil; those nodes are simply
// excluded from similarity search, never from the graph.
func (b *Builder) attachEmbeddings(ctx context.Context, g *Graph) {
	if b.embedder == nil {
		return
	}

	var pending []*Node
	var texts []string
	for _, n := range g.Nodes() {
		if n.EmbeddingText != "" {
			pending = append(pending, n)
			texts = append(texts, n.EmbeddingText)
		}
	}
	if len(pending) == 0 {
		return
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil || len(vectors) != len(pending) {
		return
	}
	for i, n := range pending {
		n.Embedding = vectors[i]
	}
}

// skillEdgeWeight computes the claim edge weight from proficiency and
// tenure. Zero years of experience always yields zero weight.
func skillEdgeWeight(skill types.SkillClaim) float64 {
	prof, ok := proficiencyMultipliers[skill.Proficiency]
	if !ok {
		prof = defaultProficiencyMultiplier
	}
	exp := skill.YearsOfExperience / fullExperienceYears
	if exp > 1.0 {
		exp = 1.0
	}
	if exp < 0 {
		exp = 0
	}
	return Clamp(skillBaseWeight * prof * exp)
}

// demonstratedWeight computes the DEMONSTRATES weight for a skill referenced
// by a project or experience, using the same formula as the claim edge.
func demonstratedWeight(profile *types.CandidateProfile, skillID string) float64 {
	for _, skill := range profile.Skills {
		if skill.ID.String() == skillID {
			return skillEdgeWeight(skill)
		}
	}
	return 0
}

func skillEmbeddingText(skill types.SkillClaim) string {
	category := skill.Category
	if category == "" {
		category = "general"
	}
	level := strings.ToLower(string(skill.Proficiency))
	if level == "" {
		level = "unspecified"
	}
	return fmt.Sprintf("%s (%s skill, %s level, %g years)", skill.Name, category, level, skill.YearsOfExperience)
}

func projectEmbeddingText(p types.Project) string {
	text := p.Title
	if p.Description != "" {
		text += ". " + p.Description
	}
	if len(p.Outcomes) > 0 {
		text += ". Outcomes: " + strings.Join(p.Outcomes, "; ")
	}
	return text
}

func experienceEmbeddingText(e types.Experience) string {
	text := e.Role
	if e.Company != "" {
		text += " at " + e.Company
	}
	if e.Description != "" {
		text += ". " + e.Description
	}
	return text
}

func educationEmbeddingText(e types.Education) string {
	text := e.Degree
	if e.Field != "" {
		text += " in " + e.Field
	}
	if e.Institution != "" {
		text += ", " + e.Institution
	}
	return text
}

func publicationEmbeddingText(p types.Publication) string {
	if p.Venue != "" {
		return fmt.Sprintf("%s (%s)", p.Title, p.Venue)
	}
	return p.Title
}

func awardEmbeddingText(a types.Award) string {
	if a.Organization != "" {
		return fmt.Sprintf("%s (%s)", a.Title, a.Organization)
	}
	return a.Title
}

func toolEmbeddingText(t types.Tool) string {
	if t.Category != "" {
		return fmt.Sprintf("%s (%s tool)", t.Name, t.Category)
	}
	return t.Name
}
