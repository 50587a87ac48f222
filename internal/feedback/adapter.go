// Package feedback adapts capability-graph edge weights from human hiring
// decisions, compounding durable per-edge multipliers over time.
package feedback

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/types"
)

// decisionFactors maps each decision to the multiplier applied to every edge
// weight on the evidence paths that produced the match. Positive decisions
// reinforce; rejection decays.
var decisionFactors = map[types.Decision]float64{
	types.DecisionShortlist: 1.10,
	types.DecisionInterview: 1.20,
	types.DecisionHire:      1.30,
	types.DecisionReject:    0.90,
}

// Factor returns the edge-weight multiplier for a decision.
func Factor(decision types.Decision) (float64, error) {
	factor, ok := decisionFactors[decision]
	if !ok {
		return 0, fmt.Errorf("unknown decision %q", decision)
	}
	return factor, nil
}

// WeightStore persists per-edge feedback multipliers keyed by candidate and
// edge identity. Implementations must serialize concurrent writers for the
// same key and apply same-key events in receipt order.
type WeightStore interface {
	// ApplyMultipliers compounds each edge's stored multiplier by the given
	// factor, creating entries at the factor itself when absent.
	ApplyMultipliers(ctx context.Context, candidateID uuid.UUID, factors map[graph.Key]float64) error
	// Multipliers returns the cumulative multipliers for a candidate.
	Multipliers(ctx context.Context, candidateID uuid.UUID) (graph.Adjustments, error)
}

// Adapter mutates graph edge weights along matched evidence paths and
// persists the multipliers so future graph builds inherit them.
type Adapter struct {
	store  WeightStore
	logger *zap.Logger
}

// NewAdapter creates a feedback adapter.
func NewAdapter(store WeightStore, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{store: store, logger: logger}
}

// Apply walks the evidence paths of every matched or partial competency in
// the match result, multiplies each edge weight on those paths by the
// decision factor (clamped to [0, 1]), and compounds the durable multipliers.
// Repeated calls compound rather than reset; callers submit each decision
// event exactly once.
func (a *Adapter) Apply(ctx context.Context, g *graph.Graph, candidateID uuid.UUID, result *types.MatchResult, decision types.Decision) error {
	factor, err := Factor(decision)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("match result is required")
	}

	// Dedupe edges shared across evidence paths so one event multiplies
	// each edge exactly once.
	edges := make(map[*graph.Edge]bool)
	for _, match := range result.Matched {
		if match.Status != types.StatusMatched && match.Status != types.StatusPartial {
			continue
		}
		for _, item := range match.Evidence {
			for _, e := range g.EdgesToRoot(item.NodeID) {
				edges[e] = true
			}
		}
	}
	if len(edges) == 0 {
		a.logger.Debug("feedback had no evidence paths to adjust",
			zap.String("candidate_id", candidateID.String()),
			zap.String("decision", string(decision)))
		return nil
	}

	factors := make(map[graph.Key]float64, len(edges))
	for e := range edges {
		e.Weight = graph.Clamp(e.Weight * factor)
		factors[e.Key()] = factor
	}

	if a.store != nil {
		if err := a.store.ApplyMultipliers(ctx, candidateID, factors); err != nil {
			return fmt.Errorf("failed to persist feedback multipliers: %w", err)
		}
	}

	a.logger.Info("applied feedback to evidence paths",
		zap.String("candidate_id", candidateID.String()),
		zap.String("decision", string(decision)),
		zap.Float64("factor", factor),
		zap.Int("edges", len(edges)))
	return nil
}
