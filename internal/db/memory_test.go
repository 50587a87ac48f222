package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/preview"
	"github.com/jonathan/talent-graph/internal/types"
)

func TestMemoryStoreCandidateRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	profile := &types.CandidateProfile{ID: uuid.New(), FullName: "Ada"}
	require.NoError(t, store.UpsertCandidate(ctx, profile))

	got, err := store.GetCandidate(ctx, profile.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.FullName)
	// The store stamps a version token when none is provided.
	assert.False(t, got.UpdatedAt.IsZero())

	missing, err := store.GetCandidate(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryStoreJobRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	updated := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	job := &types.JobRequirements{ID: uuid.New(), Title: "Engineer", UpdatedAt: updated}
	require.NoError(t, store.UpsertJob(ctx, job))

	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	// An explicit version token is preserved.
	assert.Equal(t, updated, got.UpdatedAt)
}

func TestMemoryStoreMultipliersCompound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	candidateID := uuid.New()
	key := graph.Key{Source: "root", Target: "skill", Relation: graph.RelDemonstrates}

	require.NoError(t, store.ApplyMultipliers(ctx, candidateID, map[graph.Key]float64{key: 1.1}))
	require.NoError(t, store.ApplyMultipliers(ctx, candidateID, map[graph.Key]float64{key: 1.3}))

	adjustments, err := store.Multipliers(ctx, candidateID)
	require.NoError(t, err)
	assert.InDelta(t, 1.43, adjustments[key], 1e-9)

	// Other candidates are unaffected.
	other, err := store.Multipliers(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStorePreviewStaleWriteDiscarded(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	candidateID := uuid.New()
	jobID := uuid.New()
	newer := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	require.NoError(t, store.PutPreview(ctx, &preview.Record{
		CandidateID:      candidateID,
		JobID:            jobID,
		CandidateVersion: newer,
		JobVersion:       newer,
		Result:           types.MatchResult{MatchStrength: 0.9},
	}))

	// A write computed against older version tokens loses.
	require.NoError(t, store.PutPreview(ctx, &preview.Record{
		CandidateID:      candidateID,
		JobID:            jobID,
		CandidateVersion: older,
		JobVersion:       newer,
		Result:           types.MatchResult{MatchStrength: 0.1},
	}))

	got, err := store.GetPreview(ctx, candidateID, jobID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0.9, got.Result.MatchStrength)

	// Equal or newer tokens overwrite.
	require.NoError(t, store.PutPreview(ctx, &preview.Record{
		CandidateID:      candidateID,
		JobID:            jobID,
		CandidateVersion: newer,
		JobVersion:       newer,
		Result:           types.MatchResult{MatchStrength: 0.5},
	}))
	got, err = store.GetPreview(ctx, candidateID, jobID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Result.MatchStrength)
}

func TestMemoryStoreFeedbackLogOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	candidateID := uuid.New()
	jobID := uuid.New()

	for _, decision := range []types.Decision{types.DecisionShortlist, types.DecisionInterview, types.DecisionHire} {
		require.NoError(t, store.RecordFeedback(ctx, &types.FeedbackEvent{
			CandidateID: candidateID,
			JobID:       jobID,
			Decision:    decision,
		}))
	}
	// An event for a different pair is excluded.
	require.NoError(t, store.RecordFeedback(ctx, &types.FeedbackEvent{
		CandidateID: uuid.New(),
		JobID:       jobID,
		Decision:    types.DecisionReject,
	}))

	events, err := store.ListFeedback(ctx, candidateID, jobID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, types.DecisionShortlist, events[0].Decision)
	assert.Equal(t, types.DecisionInterview, events[1].Decision)
	assert.Equal(t, types.DecisionHire, events[2].Decision)
}
