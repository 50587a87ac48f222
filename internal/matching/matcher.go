// Package matching finds candidate-graph evidence for job competencies and
// aggregates it into an explainable, partial-credit match score.
package matching

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jonathan/talent-graph/internal/embedding"
	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/types"
)

// Evidence retrieval bounds. The floor is a hard cutoff below which evidence
// is discarded regardless of the competency's category threshold.
const (
	DefaultEvidenceFloor = 0.25
	DefaultEvidenceLimit = 5
)

// MatcherConfig holds the evidence retrieval tuning knobs. Zero fields
// select the defaults; a deployment that wants no floor at all should pass
// a small positive value instead of zero.
type MatcherConfig struct {
	EvidenceFloor float64
	EvidenceLimit int
}

// Matcher finds graph nodes whose embeddings are similar to a competency's
// description and returns bounded, ranked evidence sets.
type Matcher struct {
	embedder embedding.Service
	floor    float64
	limit    int
	logger   *zap.Logger
}

// NewMatcher creates a matcher. Zero config fields fall back to defaults.
func NewMatcher(embedder embedding.Service, cfg MatcherConfig, logger *zap.Logger) *Matcher {
	if cfg.EvidenceFloor == 0 {
		cfg.EvidenceFloor = DefaultEvidenceFloor
	}
	if cfg.EvidenceLimit == 0 {
		cfg.EvidenceLimit = DefaultEvidenceLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		embedder: embedder,
		floor:    cfg.EvidenceFloor,
		limit:    cfg.EvidenceLimit,
		logger:   logger,
	}
}

// Evidence is the retrieval result for one competency: the best similarity
// found and up to EvidenceLimit supporting items, strongest first.
type Evidence struct {
	Competency types.Competency
	Best       float64
	Items      []types.EvidenceItem
}

// Gather retrieves evidence for every competency against the graph. All
// competency queries are embedded in one batched call. If the embedding
// backend is unavailable, every competency comes back with empty evidence
// and scoring proceeds in degraded mode; this never fails the request.
func (m *Matcher) Gather(ctx context.Context, g *graph.Graph, competencies []types.Competency) []Evidence {
	evidence := make([]Evidence, len(competencies))
	for i, comp := range competencies {
		evidence[i] = Evidence{Competency: comp}
	}
	if len(competencies) == 0 || m.embedder == nil {
		return evidence
	}

	queries := make([]string, len(competencies))
	for i, comp := range competencies {
		queries[i] = queryText(comp)
	}

	vectors, err := m.embedder.EmbedBatch(ctx, queries)
	if err != nil || len(vectors) != len(queries) {
		m.logger.Warn("embedding backend unavailable, scoring with no evidence", zap.Error(err))
		return evidence
	}

	for i := range competencies {
		evidence[i].Items = m.search(g, vectors[i])
		if len(evidence[i].Items) > 0 {
			evidence[i].Best = evidence[i].Items[0].Similarity
		}
	}
	return evidence
}

// search scores the query vector against every embedded node, keeps items
// above the hard floor, and returns the top results by similarity. Nodes
// without embeddings never produce evidence.
func (m *Matcher) search(g *graph.Graph, query []float32) []types.EvidenceItem {
	var items []types.EvidenceItem
	for _, n := range g.Nodes() {
		if len(n.Embedding) == 0 {
			continue
		}
		sim := embedding.Cosine(query, n.Embedding)
		if sim <= m.floor {
			continue
		}
		items = append(items, types.EvidenceItem{
			NodeID:     n.ID,
			NodeType:   string(n.Type),
			Similarity: sim,
			Text:       n.EmbeddingText,
		})
	}

	// Tie-break on node ID so identical inputs rank identically.
	sort.Slice(items, func(i, j int) bool {
		if items[i].Similarity != items[j].Similarity {
			return items[i].Similarity > items[j].Similarity
		}
		return items[i].NodeID < items[j].NodeID
	})

	if len(items) > m.limit {
		items = items[:m.limit]
	}
	return items
}

// queryText composes the embedding query for a competency.
func queryText(comp types.Competency) string {
	if comp.Description == "" {
		return comp.Name
	}
	return fmt.Sprintf("%s (%s)", comp.Name, comp.Description)
}
