// Package preview memoizes match results per (candidate, job) pair, keyed by
// both entities' version tokens.
package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/talent-graph/internal/types"
)

// Record is one cached preview: the match result computed for a (candidate,
// job) pair at specific version tokens. Exactly one record exists per pair;
// refreshes overwrite it.
type Record struct {
	CandidateID      uuid.UUID             `json:"candidate_id"`
	JobID            uuid.UUID             `json:"job_id"`
	Result           types.MatchResult     `json:"match_result"`
	Selected         types.SelectedContent `json:"selected_content"`
	CandidateVersion time.Time             `json:"candidate_version"`
	JobVersion       time.Time             `json:"job_version"`
	ComputedAt       time.Time             `json:"computed_at"`
}

// Store persists preview records. PutPreview must discard stale writes:
// when a stored row carries newer version tokens than the incoming record,
// the incoming record loses (last writer by token recency, not wall clock).
type Store interface {
	GetPreview(ctx context.Context, candidateID, jobID uuid.UUID) (*Record, error)
	PutPreview(ctx context.Context, record *Record) error
}

// ComputeFunc produces a fresh preview record on a cache miss.
type ComputeFunc func(ctx context.Context) (*Record, error)

// Cache memoizes (candidate, job) scoring output. Concurrent refreshes for
// the same pair are collapsed into a single computation.
type Cache struct {
	store  Store
	group  singleflight.Group
	logger *zap.Logger
}

// NewCache creates a preview cache over the given store.
func NewCache(store Store, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, logger: logger}
}

// GetOrCompute returns the cached preview for the pair when it is still
// valid, or runs compute and overwrites the cache row. The cached result is
// valid iff its tokens are at least as new as both inputs' version tokens
// and forceRefresh is false. The boolean reports whether the result came
// from cache.
func (c *Cache) GetOrCompute(ctx context.Context, candidate *types.CandidateProfile, job *types.JobRequirements, forceRefresh bool, compute ComputeFunc) (*Record, bool, error) {
	key := fmt.Sprintf("%s/%s", candidate.ID, job.ID)

	type outcome struct {
		record *Record
		cached bool
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if !forceRefresh {
			cached, err := c.store.GetPreview(ctx, candidate.ID, job.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to read preview cache: %w", err)
			}
			if cached != nil && c.valid(cached, candidate, job) {
				c.logger.Debug("preview cache hit",
					zap.String("candidate_id", candidate.ID.String()),
					zap.String("job_id", job.ID.String()))
				return outcome{record: cached, cached: true}, nil
			}
		}

		record, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		record.CandidateID = candidate.ID
		record.JobID = job.ID
		record.CandidateVersion = candidate.VersionToken()
		record.JobVersion = job.VersionToken()
		record.ComputedAt = time.Now().UTC()

		if err := c.store.PutPreview(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to write preview cache: %w", err)
		}
		return outcome{record: record, cached: false}, nil
	})
	if err != nil {
		return nil, false, err
	}

	out := v.(outcome)
	return out.record, out.cached, nil
}

// valid reports whether a cached record is at least as new as both inputs.
func (c *Cache) valid(record *Record, candidate *types.CandidateProfile, job *types.JobRequirements) bool {
	return !record.CandidateVersion.Before(candidate.VersionToken()) &&
		!record.JobVersion.Before(job.VersionToken())
}
