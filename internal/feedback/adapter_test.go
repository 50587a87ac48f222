package feedback

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/types"
)

// recordingStore captures ApplyMultipliers calls and compounds them like a
// real store would.
type recordingStore struct {
	applied     []map[graph.Key]float64
	multipliers graph.Adjustments
}

func (s *recordingStore) ApplyMultipliers(_ context.Context, _ uuid.UUID, factors map[graph.Key]float64) error {
	s.applied = append(s.applied, factors)
	if s.multipliers == nil {
		s.multipliers = make(graph.Adjustments)
	}
	for key, factor := range factors {
		if existing, ok := s.multipliers[key]; ok {
			s.multipliers[key] = existing * factor
		} else {
			s.multipliers[key] = factor
		}
	}
	return nil
}

func (s *recordingStore) Multipliers(_ context.Context, _ uuid.UUID) (graph.Adjustments, error) {
	return s.multipliers, nil
}

// feedbackGraph builds root -> project -> skill with a direct claim edge.
func feedbackGraph(t *testing.T) (*graph.Graph, *graph.Edge, *graph.Edge, *graph.Edge) {
	t.Helper()
	g := graph.New()
	g.AddNode(&graph.Node{ID: "root", Type: graph.NodeCandidate})
	g.AddNode(&graph.Node{ID: "proj", Type: graph.NodeProject})
	g.AddNode(&graph.Node{ID: "skill", Type: graph.NodeSkill})
	claim := g.AddEdge("root", "skill", graph.RelDemonstrates, 0.5)
	hasProject := g.AddEdge("root", "proj", graph.RelHasProject, 1.0)
	demonstrated := g.AddEdge("proj", "skill", graph.RelDemonstrates, 0.5)
	return g, claim, hasProject, demonstrated
}

func matchedResult(nodeIDs ...string) *types.MatchResult {
	items := make([]types.EvidenceItem, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		items = append(items, types.EvidenceItem{NodeID: id, NodeType: string(graph.NodeSkill)})
	}
	return &types.MatchResult{
		Matched: []types.EvidenceMatch{{Status: types.StatusMatched, Evidence: items}},
	}
}

func TestFactor(t *testing.T) {
	tests := []struct {
		decision types.Decision
		factor   float64
	}{
		{types.DecisionShortlist, 1.10},
		{types.DecisionInterview, 1.20},
		{types.DecisionHire, 1.30},
		{types.DecisionReject, 0.90},
	}
	for _, tt := range tests {
		factor, err := Factor(tt.decision)
		require.NoError(t, err)
		assert.Equal(t, tt.factor, factor)
	}

	_, err := Factor(types.Decision("MAYBE"))
	assert.Error(t, err)
}

func TestApplyMultipliesEvidencePath(t *testing.T) {
	g, claim, hasProject, demonstrated := feedbackGraph(t)
	store := &recordingStore{}
	adapter := NewAdapter(store, nil)

	err := adapter.Apply(context.Background(), g, uuid.New(), matchedResult("skill"), types.DecisionShortlist)
	require.NoError(t, err)

	assert.InDelta(t, 0.55, claim.Weight, 1e-9)
	assert.InDelta(t, 0.55, demonstrated.Weight, 1e-9)
	// HAS_PROJECT is already at the cap.
	assert.Equal(t, 1.0, hasProject.Weight)

	require.Len(t, store.applied, 1)
	assert.Len(t, store.applied[0], 3)
	for _, factor := range store.applied[0] {
		assert.Equal(t, 1.10, factor)
	}
}

func TestApplyClampsAtOne(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "root", Type: graph.NodeCandidate})
	g.AddNode(&graph.Node{ID: "skill", Type: graph.NodeSkill})
	e := g.AddEdge("root", "skill", graph.RelDemonstrates, 0.8)

	adapter := NewAdapter(&recordingStore{}, nil)
	candidateID := uuid.New()

	// 0.8 * 1.3 = 1.04, clamped to 1.0.
	err := adapter.Apply(context.Background(), g, candidateID, matchedResult("skill"), types.DecisionHire)
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.Weight)
}

func TestApplyRejectDecays(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "root", Type: graph.NodeCandidate})
	g.AddNode(&graph.Node{ID: "skill", Type: graph.NodeSkill})
	e := g.AddEdge("root", "skill", graph.RelDemonstrates, 0.5)

	adapter := NewAdapter(&recordingStore{}, nil)
	err := adapter.Apply(context.Background(), g, uuid.New(), matchedResult("skill"), types.DecisionReject)
	require.NoError(t, err)
	assert.InDelta(t, 0.45, e.Weight, 1e-9)
}

// Repeated decisions compound in the durable store.
func TestApplyCompoundsInStore(t *testing.T) {
	g, _, _, _ := feedbackGraph(t)
	store := &recordingStore{}
	adapter := NewAdapter(store, nil)
	candidateID := uuid.New()

	require.NoError(t, adapter.Apply(context.Background(), g, candidateID, matchedResult("skill"), types.DecisionShortlist))
	require.NoError(t, adapter.Apply(context.Background(), g, candidateID, matchedResult("skill"), types.DecisionInterview))

	key := graph.Key{Source: "root", Target: "skill", Relation: graph.RelDemonstrates}
	assert.InDelta(t, 1.10*1.20, store.multipliers[key], 1e-9)
}

// Edges shared by several evidence items are multiplied once per event.
func TestApplyDedupesSharedEdges(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{ID: "root", Type: graph.NodeCandidate})
	g.AddNode(&graph.Node{ID: "proj", Type: graph.NodeProject})
	g.AddNode(&graph.Node{ID: "s1", Type: graph.NodeSkill})
	g.AddNode(&graph.Node{ID: "s2", Type: graph.NodeSkill})
	shared := g.AddEdge("root", "proj", graph.RelHasProject, 0.5)
	g.AddEdge("proj", "s1", graph.RelDemonstrates, 0.5)
	g.AddEdge("proj", "s2", graph.RelDemonstrates, 0.5)

	adapter := NewAdapter(&recordingStore{}, nil)
	err := adapter.Apply(context.Background(), g, uuid.New(), matchedResult("s1", "s2"), types.DecisionShortlist)
	require.NoError(t, err)

	assert.InDelta(t, 0.55, shared.Weight, 1e-9)
}

func TestApplySkipsMissingCompetencies(t *testing.T) {
	g, claim, _, _ := feedbackGraph(t)
	result := &types.MatchResult{
		Matched: []types.EvidenceMatch{{
			Status:   types.StatusMissing,
			Evidence: []types.EvidenceItem{{NodeID: "skill"}},
		}},
	}

	store := &recordingStore{}
	adapter := NewAdapter(store, nil)
	require.NoError(t, adapter.Apply(context.Background(), g, uuid.New(), result, types.DecisionHire))

	assert.Equal(t, 0.5, claim.Weight)
	assert.Empty(t, store.applied)
}

func TestApplyUnknownDecision(t *testing.T) {
	g, _, _, _ := feedbackGraph(t)
	adapter := NewAdapter(&recordingStore{}, nil)
	err := adapter.Apply(context.Background(), g, uuid.New(), matchedResult("skill"), types.Decision("MAYBE"))
	assert.Error(t, err)
}

func TestApplyNilResult(t *testing.T) {
	g, _, _, _ := feedbackGraph(t)
	adapter := NewAdapter(&recordingStore{}, nil)
	err := adapter.Apply(context.Background(), g, uuid.New(), nil, types.DecisionHire)
	assert.Error(t, err)
}
