package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/talent-graph/internal/preview"
)

// -----------------------------------------------------------------------------
// Preview Cache Methods
// -----------------------------------------------------------------------------

// GetPreview retrieves the cached preview row for a (candidate, job) pair
func (db *DB) GetPreview(ctx context.Context, candidateID, jobID uuid.UUID) (*preview.Record, error) {
	var record preview.Record
	var resultJSON, selectedJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT candidate_id, job_id, match_result, selected_content,
		        candidate_version, job_version, computed_at
		 FROM match_previews WHERE candidate_id = $1 AND job_id = $2`,
		candidateID, jobID,
	).Scan(&record.CandidateID, &record.JobID, &resultJSON, &selectedJSON,
		&record.CandidateVersion, &record.JobVersion, &record.ComputedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preview: %w", err)
	}

	if err := json.Unmarshal(resultJSON, &record.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match result: %w", err)
	}
	if err := json.Unmarshal(selectedJSON, &record.Selected); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selected content: %w", err)
	}

	return &record, nil
}

// PutPreview overwrites the single cache row for the pair. A write computed
// from version tokens older than the stored row is discarded: the winner is
// decided by token recency, never by wall clock.
func (db *DB) PutPreview(ctx context.Context, record *preview.Record) error {
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal match result: %w", err)
	}
	selectedJSON, err := json.Marshal(record.Selected)
	if err != nil {
		return fmt.Errorf("failed to marshal selected content: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO match_previews (candidate_id, job_id, match_result, selected_content,
		                             candidate_version, job_version, computed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (candidate_id, job_id) DO UPDATE
		 SET match_result = $3, selected_content = $4,
		     candidate_version = $5, job_version = $6, computed_at = $7
		 WHERE match_previews.candidate_version <= $5
		   AND match_previews.job_version <= $6`,
		record.CandidateID, record.JobID, resultJSON, selectedJSON,
		record.CandidateVersion, record.JobVersion, record.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put preview: %w", err)
	}
	return nil
}
