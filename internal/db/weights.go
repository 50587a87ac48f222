package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jonathan/talent-graph/internal/graph"
)

// -----------------------------------------------------------------------------
// Feedback Weight Multiplier Methods
// -----------------------------------------------------------------------------

// ApplyMultipliers compounds the stored multiplier for each edge key by the
// given factor. Row-level upserts serialize concurrent writers for the same
// key, so same-key feedback events apply in receipt order. Keys are touched
// in sorted order to keep multi-key transactions deadlock-free.
func (db *DB) ApplyMultipliers(ctx context.Context, candidateID uuid.UUID, factors map[graph.Key]float64) error {
	if len(factors) == 0 {
		return nil
	}

	keys := make([]graph.Key, 0, len(factors))
	for key := range factors {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Source != keys[j].Source {
			return keys[i].Source < keys[j].Source
		}
		if keys[i].Target != keys[j].Target {
			return keys[i].Target < keys[j].Target
		}
		return keys[i].Relation < keys[j].Relation
	})

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, key := range keys {
		_, err := tx.Exec(ctx,
			`INSERT INTO edge_adjustments (candidate_id, source_id, target_id, relation, multiplier, updated_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())
			 ON CONFLICT (candidate_id, source_id, target_id, relation)
			 DO UPDATE SET multiplier = edge_adjustments.multiplier * $5, updated_at = NOW()`,
			candidateID, key.Source, key.Target, string(key.Relation), factors[key],
		)
		if err != nil {
			return fmt.Errorf("failed to apply multiplier for edge %s->%s: %w", key.Source, key.Target, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit multipliers: %w", err)
	}
	return nil
}

// Multipliers returns all cumulative feedback multipliers for a candidate,
// ready to re-apply to a freshly built graph.
func (db *DB) Multipliers(ctx context.Context, candidateID uuid.UUID) (graph.Adjustments, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT source_id, target_id, relation, multiplier
		 FROM edge_adjustments WHERE candidate_id = $1`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list multipliers: %w", err)
	}
	defer rows.Close()

	adjustments := make(graph.Adjustments)
	for rows.Next() {
		var key graph.Key
		var relation string
		var multiplier float64
		if err := rows.Scan(&key.Source, &key.Target, &relation, &multiplier); err != nil {
			return nil, fmt.Errorf("failed to scan multiplier: %w", err)
		}
		key.Relation = graph.Relation(relation)
		adjustments[key] = multiplier
	}
	return adjustments, nil
}
