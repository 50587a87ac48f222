package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/talent-graph/internal/types"
)

// -----------------------------------------------------------------------------
// Application / Feedback Event Methods
// -----------------------------------------------------------------------------

// RecordFeedback appends a feedback event to the audit log and updates the
// application's last decision. Insertion order is the receipt order the
// weight adapter honours for same-key events.
func (db *DB) RecordFeedback(ctx context.Context, event *types.FeedbackEvent) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO feedback_events (candidate_id, job_id, decision, reason)
		 VALUES ($1, $2, $3, $4)`,
		event.CandidateID, event.JobID, string(event.Decision), event.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback event: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO applications (candidate_id, job_id, last_decision, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (candidate_id, job_id) DO UPDATE SET last_decision = $3, updated_at = NOW()`,
		event.CandidateID, event.JobID, string(event.Decision),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit feedback: %w", err)
	}
	return nil
}

// ListFeedback returns the feedback events for a (candidate, job) pair in
// receipt order.
func (db *DB) ListFeedback(ctx context.Context, candidateID, jobID uuid.UUID) ([]types.FeedbackEvent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT candidate_id, job_id, decision, reason, created_at
		 FROM feedback_events
		 WHERE candidate_id = $1 AND job_id = $2
		 ORDER BY id ASC`,
		candidateID, jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var events []types.FeedbackEvent
	for rows.Next() {
		var event types.FeedbackEvent
		var decision string
		if err := rows.Scan(&event.CandidateID, &event.JobID, &decision, &event.Reason, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback event: %w", err)
		}
		event.Decision = types.Decision(decision)
		events = append(events, event)
	}
	return events, nil
}
