package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/talent-graph/internal/types"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

// UpsertJob stores a job's requirements, bumping its version token
func (db *DB) UpsertJob(ctx context.Context, job *types.JobRequirements) error {
	requirementsJSON, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job requirements: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company, requirements, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (id) DO UPDATE SET title = $2, company = $3, requirements = $4, updated_at = NOW()`,
		job.ID, job.Title, job.Company, requirementsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert job: %w", err)
	}
	return nil
}

// GetJob retrieves a job's requirements by ID. The row's updated_at is the
// job's version token.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.JobRequirements, error) {
	var requirementsJSON []byte
	var job types.JobRequirements

	err := db.pool.QueryRow(ctx,
		`SELECT requirements, updated_at FROM jobs WHERE id = $1`,
		id,
	).Scan(&requirementsJSON, &job.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	updatedAt := job.UpdatedAt
	if err := json.Unmarshal(requirementsJSON, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job requirements: %w", err)
	}
	job.UpdatedAt = updatedAt

	return &job, nil
}
