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
// Candidate Methods
// -----------------------------------------------------------------------------

// UpsertCandidate stores a candidate profile, bumping its version token
func (db *DB) UpsertCandidate(ctx context.Context, profile *types.CandidateProfile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal candidate profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO candidates (id, full_name, profile, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (id) DO UPDATE SET full_name = $2, profile = $3, updated_at = NOW()`,
		profile.ID, profile.FullName, profileJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}
	return nil
}

// GetCandidate retrieves a candidate profile by ID. The row's updated_at is
// the profile's version token.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	var profileJSON []byte
	var profile types.CandidateProfile

	err := db.pool.QueryRow(ctx,
		`SELECT profile, updated_at FROM candidates WHERE id = $1`,
		id,
	).Scan(&profileJSON, &profile.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	updatedAt := profile.UpdatedAt
	if err := json.Unmarshal(profileJSON, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate profile: %w", err)
	}
	profile.UpdatedAt = updatedAt

	return &profile, nil
}
