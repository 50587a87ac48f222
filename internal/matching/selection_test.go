package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/types"
)

func TestSelectContent(t *testing.T) {
	candidateID := uuid.New()
	projectID := uuid.New()
	skillID := uuid.New()

	g := graph.New()
	rootID := graph.NodeID(graph.NodeCandidate, candidateID.String())
	projectNode := graph.NodeID(graph.NodeProject, projectID.String())
	skillNode := graph.NodeID(graph.NodeSkill, skillID.String())

	g.AddNode(&graph.Node{ID: rootID, Type: graph.NodeCandidate, Attributes: map[string]any{"entity_id": candidateID.String()}})
	g.AddNode(&graph.Node{ID: projectNode, Type: graph.NodeProject, Attributes: map[string]any{"entity_id": projectID.String()}})
	g.AddNode(&graph.Node{ID: skillNode, Type: graph.NodeSkill, Attributes: map[string]any{"entity_id": skillID.String()}})
	g.AddEdge(rootID, projectNode, graph.RelHasProject, 1.0)
	g.AddEdge(projectNode, skillNode, graph.RelDemonstrates, 0.4)

	result := &types.MatchResult{
		MatchStrength: 0.8,
		Matched: []types.EvidenceMatch{{
			Status: types.StatusMatched,
			Evidence: []types.EvidenceItem{
				{NodeID: skillNode, NodeType: string(graph.NodeSkill), Similarity: 0.9},
			},
		}},
	}

	selected := SelectContent(g, result)

	// The skill matched directly; the project corroborating it on the
	// evidence path is selected too.
	require.Len(t, selected.SkillIDs, 1)
	assert.Equal(t, skillID, selected.SkillIDs[0])
	require.Len(t, selected.ProjectIDs, 1)
	assert.Equal(t, projectID, selected.ProjectIDs[0])
	assert.Equal(t, 0.8, selected.MatchStrength)
}

func TestSelectContentEmptyResult(t *testing.T) {
	g := graph.New()
	result := &types.MatchResult{MatchStrength: 0}

	selected := SelectContent(g, result)
	assert.Empty(t, selected.ProjectIDs)
	assert.Empty(t, selected.SkillIDs)
}

func TestSelectContentDeterministicOrder(t *testing.T) {
	g := graph.New()
	rootID := "candidate_root"
	g.AddNode(&graph.Node{ID: rootID, Type: graph.NodeCandidate})

	var items []types.EvidenceItem
	for i := 0; i < 6; i++ {
		id := uuid.New()
		nodeID := graph.NodeID(graph.NodeSkill, id.String())
		g.AddNode(&graph.Node{ID: nodeID, Type: graph.NodeSkill, Attributes: map[string]any{"entity_id": id.String()}})
		g.AddEdge(rootID, nodeID, graph.RelDemonstrates, 0.3)
		items = append(items, types.EvidenceItem{NodeID: nodeID, NodeType: string(graph.NodeSkill)})
	}
	result := &types.MatchResult{Matched: []types.EvidenceMatch{{Status: types.StatusMatched, Evidence: items}}}

	first := SelectContent(g, result)
	second := SelectContent(g, result)
	assert.Equal(t, first, second)

	for i := 1; i < len(first.SkillIDs); i++ {
		assert.Less(t, first.SkillIDs[i-1].String(), first.SkillIDs[i].String())
	}
}
