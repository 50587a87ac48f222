package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-graph/internal/types"
)

// stubEmbedder returns a fixed vector for every text, or fails entirely.
type stubEmbedder struct {
	fail  bool
	calls int
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if s.fail {
		return nil, errors.New("backend down")
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("backend down")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

func (s *stubEmbedder) Close() error { return nil }

func buildProfile() *types.CandidateProfile {
	return &types.CandidateProfile{
		ID:       uuid.New(),
		FullName: "Ada Lovelace",
	}
}

func findEdge(g *Graph, source, target string, relation Relation) *Edge {
	for _, e := range g.Edges() {
		if e.Source == source && e.Target == target && e.Relation == relation {
			return e
		}
	}
	return nil
}

func TestBuildRequiresRootIdentity(t *testing.T) {
	b := NewBuilder(nil)

	_, err := b.Build(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoRootIdentity)

	_, err = b.Build(context.Background(), &types.CandidateProfile{FullName: "Ada"}, nil)
	assert.ErrorIs(t, err, ErrNoRootIdentity)

	_, err = b.Build(context.Background(), &types.CandidateProfile{ID: uuid.New()}, nil)
	assert.ErrorIs(t, err, ErrNoRootIdentity)
}

func TestBuildSkillEdgeWeightFormula(t *testing.T) {
	tests := []struct {
		name        string
		proficiency types.ProficiencyLevel
		years       float64
		expected    float64
	}{
		{"expert at full tenure", types.ProficiencyExpert, 5, 0.5},
		{"expert beyond full tenure caps", types.ProficiencyExpert, 12, 0.5},
		{"advanced mid tenure", types.ProficiencyAdvanced, 4, 0.5 * 0.8 * 0.8},
		{"beginner short tenure", types.ProficiencyBeginner, 1, 0.5 * 0.3 * 0.2},
		{"intermediate", types.ProficiencyIntermediate, 2.5, 0.5 * 0.6 * 0.5},
		{"unknown level uses default", types.ProficiencyLevel("WIZARD"), 5, 0.5 * 0.6},
		{"zero years yields zero weight", types.ProficiencyExpert, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := buildProfile()
			skillID := uuid.New()
			profile.Skills = []types.SkillClaim{{
				ID:                skillID,
				Name:              "Go",
				Proficiency:       tt.proficiency,
				YearsOfExperience: tt.years,
			}}

			g, err := NewBuilder(nil).Build(context.Background(), profile, nil)
			require.NoError(t, err)

			e := findEdge(g, g.Root(), NodeID(NodeSkill, skillID.String()), RelDemonstrates)
			require.NotNil(t, e)
			assert.InDelta(t, tt.expected, e.Weight, 1e-9)
		})
	}
}

func TestBuildProjectEdges(t *testing.T) {
	profile := buildProfile()
	skillID := uuid.New()
	toolID := uuid.New()
	projectID := uuid.New()
	profile.Skills = []types.SkillClaim{{
		ID: skillID, Name: "Go", Proficiency: types.ProficiencyExpert, YearsOfExperience: 5,
	}}
	profile.Tools = []types.Tool{{ID: toolID, Name: "Kubernetes"}}
	profile.Projects = []types.Project{{
		ID:       projectID,
		Title:    "Scheduler",
		SkillIDs: []uuid.UUID{skillID},
		ToolIDs:  []uuid.UUID{toolID},
	}}

	g, err := NewBuilder(nil).Build(context.Background(), profile, nil)
	require.NoError(t, err)

	projectNode := NodeID(NodeProject, projectID.String())
	hasProject := findEdge(g, g.Root(), projectNode, RelHasProject)
	require.NotNil(t, hasProject)
	assert.Equal(t, 1.0, hasProject.Weight)

	demonstrates := findEdge(g, projectNode, NodeID(NodeSkill, skillID.String()), RelDemonstrates)
	require.NotNil(t, demonstrates)
	assert.Equal(t, 0.5, demonstrates.Weight)

	usesTool := findEdge(g, projectNode, NodeID(NodeTool, toolID.String()), RelUsesTool)
	require.NotNil(t, usesTool)
	assert.Equal(t, 1.0, usesTool.Weight)
}

// Every node must be reachable from the root, so a tool no project references
// gets no node at all.
func TestBuildSkipsUnreferencedTools(t *testing.T) {
	profile := buildProfile()
	usedToolID := uuid.New()
	orphanToolID := uuid.New()
	projectID := uuid.New()
	profile.Tools = []types.Tool{
		{ID: usedToolID, Name: "Kubernetes"},
		{ID: orphanToolID, Name: "Terraform"},
	}
	profile.Projects = []types.Project{{
		ID:      projectID,
		Title:   "Scheduler",
		ToolIDs: []uuid.UUID{usedToolID},
	}}

	g, err := NewBuilder(nil).Build(context.Background(), profile, nil)
	require.NoError(t, err)

	assert.Nil(t, g.Node(NodeID(NodeTool, orphanToolID.String())))

	usedNode := NodeID(NodeTool, usedToolID.String())
	require.NotNil(t, g.Node(usedNode))
	assert.NotEmpty(t, g.EdgesToRoot(usedNode))
}

// A tool shared by two projects gets one node and one USES_TOOL edge per
// project.
func TestBuildToolSharedAcrossProjects(t *testing.T) {
	profile := buildProfile()
	toolID := uuid.New()
	firstProject := uuid.New()
	secondProject := uuid.New()
	profile.Tools = []types.Tool{{ID: toolID, Name: "Kubernetes"}}
	profile.Projects = []types.Project{
		{ID: firstProject, Title: "Scheduler", ToolIDs: []uuid.UUID{toolID}},
		{ID: secondProject, Title: "Autoscaler", ToolIDs: []uuid.UUID{toolID}},
	}

	g, err := NewBuilder(nil).Build(context.Background(), profile, nil)
	require.NoError(t, err)

	toolNode := NodeID(NodeTool, toolID.String())
	require.NotNil(t, g.Node(toolNode))
	require.NotNil(t, findEdge(g, NodeID(NodeProject, firstProject.String()), toolNode, RelUsesTool))
	require.NotNil(t, findEdge(g, NodeID(NodeProject, secondProject.String()), toolNode, RelUsesTool))

	toolCount := 0
	for _, n := range g.Nodes() {
		if n.Type == NodeTool {
			toolCount++
		}
	}
	assert.Equal(t, 1, toolCount)
}

func TestBuildAcquiredFromProjectEdge(t *testing.T) {
	profile := buildProfile()
	skillID := uuid.New()
	projectID := uuid.New()
	profile.Projects = []types.Project{{ID: projectID, Title: "Pipeline"}}
	profile.Skills = []types.SkillClaim{{
		ID:                    skillID,
		Name:                  "Airflow",
		Proficiency:           types.ProficiencyAdvanced,
		YearsOfExperience:     2,
		AcquiredFromProjectID: &projectID,
	}}

	g, err := NewBuilder(nil).Build(context.Background(), profile, nil)
	require.NoError(t, err)

	e := findEdge(g, NodeID(NodeProject, projectID.String()), NodeID(NodeSkill, skillID.String()), RelDemonstrates)
	require.NotNil(t, e)
	assert.InDelta(t, 0.5*0.8*0.4, e.Weight, 1e-9)
}

func TestBuildDuplicateReferencesAddOneEdge(t *testing.T) {
	profile := buildProfile()
	skillID := uuid.New()
	projectID := uuid.New()
	profile.Skills = []types.SkillClaim{{
		ID: skillID, Name: "Go", Proficiency: types.ProficiencyExpert, YearsOfExperience: 5,
	}}
	profile.Projects = []types.Project{{
		ID:       projectID,
		Title:    "Scheduler",
		SkillIDs: []uuid.UUID{skillID, skillID},
	}}

	g, err := NewBuilder(nil).Build(context.Background(), profile, nil)
	require.NoError(t, err)

	count := 0
	for _, e := range g.Edges() {
		if e.Source == NodeID(NodeProject, projectID.String()) && e.Relation == RelDemonstrates {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBuildAppliesAdjustmentsWithClamp(t *testing.T) {
	profile := buildProfile()
	skillID := uuid.New()
	profile.Skills = []types.SkillClaim{{
		ID: skillID, Name: "Go", Proficiency: types.ProficiencyExpert, YearsOfExperience: 5,
	}}

	skillNode := NodeID(NodeSkill, skillID.String())
	key := Key{Source: NodeID(NodeCandidate, profile.ID.String()), Target: skillNode, Relation: RelDemonstrates}

	g, err := NewBuilder(nil).Build(context.Background(), profile, Adjustments{key: 1.3})
	require.NoError(t, err)
	e := findEdge(g, key.Source, key.Target, key.Relation)
	require.NotNil(t, e)
	assert.InDelta(t, 0.65, e.Weight, 1e-9)

	// Large cumulative multipliers clamp at 1.0.
	g, err = NewBuilder(nil).Build(context.Background(), profile, Adjustments{key: 9.0})
	require.NoError(t, err)
	e = findEdge(g, key.Source, key.Target, key.Relation)
	assert.Equal(t, 1.0, e.Weight)
}

func TestBuildAttachesEmbeddingsInOneBatch(t *testing.T) {
	profile := buildProfile()
	profile.Skills = []types.SkillClaim{
		{ID: uuid.New(), Name: "Go", Proficiency: types.ProficiencyExpert, YearsOfExperience: 5},
	}
	profile.Projects = []types.Project{{ID: uuid.New(), Title: "Scheduler"}}
	profile.Education = []types.Education{{ID: uuid.New(), Degree: "BSc"}}

	stub := &stubEmbedder{}
	g, err := NewBuilder(stub).Build(context.Background(), profile, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stub.calls)
	for _, n := range g.Nodes() {
		if n.EmbeddingText != "" {
			assert.NotEmpty(t, n.Embedding, "node %s should carry an embedding", n.ID)
		}
	}
	// The root has no embedding text and stays unembedded.
	assert.Empty(t, g.Node(g.Root()).Embedding)
}

func TestBuildSurvivesEmbeddingFailure(t *testing.T) {
	profile := buildProfile()
	profile.Skills = []types.SkillClaim{
		{ID: uuid.New(), Name: "Go", Proficiency: types.ProficiencyExpert, YearsOfExperience: 5},
	}

	g, err := NewBuilder(&stubEmbedder{fail: true}).Build(context.Background(), profile, nil)
	require.NoError(t, err)
	for _, n := range g.Nodes() {
		assert.Empty(t, n.Embedding)
	}
}
