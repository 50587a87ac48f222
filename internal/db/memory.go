package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/preview"
	"github.com/jonathan/talent-graph/internal/types"
)

// MemoryStore is an in-process implementation of the engine's durable
// surface, used for database-less runs and tests. A single mutex serializes
// writers, which trivially satisfies the single-writer-per-key discipline.
type MemoryStore struct {
	mu          sync.RWMutex
	candidates  map[uuid.UUID]*types.CandidateProfile
	jobs        map[uuid.UUID]*types.JobRequirements
	multipliers map[uuid.UUID]graph.Adjustments
	previews    map[string]*preview.Record
	feedback    []types.FeedbackEvent
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		candidates:  make(map[uuid.UUID]*types.CandidateProfile),
		jobs:        make(map[uuid.UUID]*types.JobRequirements),
		multipliers: make(map[uuid.UUID]graph.Adjustments),
		previews:    make(map[string]*preview.Record),
	}
}

// UpsertCandidate stores a candidate profile.
func (s *MemoryStore) UpsertCandidate(_ context.Context, profile *types.CandidateProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *profile
	if copied.UpdatedAt.IsZero() {
		copied.UpdatedAt = time.Now().UTC()
	}
	s.candidates[profile.ID] = &copied
	return nil
}

// GetCandidate retrieves a candidate profile, or nil when absent.
func (s *MemoryStore) GetCandidate(_ context.Context, id uuid.UUID) (*types.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

// UpsertJob stores a job's requirements.
func (s *MemoryStore) UpsertJob(_ context.Context, job *types.JobRequirements) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	if copied.UpdatedAt.IsZero() {
		copied.UpdatedAt = time.Now().UTC()
	}
	s.jobs[job.ID] = &copied
	return nil
}

// GetJob retrieves a job's requirements, or nil when absent.
func (s *MemoryStore) GetJob(_ context.Context, id uuid.UUID) (*types.JobRequirements, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

// ApplyMultipliers compounds the stored multiplier for each edge key.
func (s *MemoryStore) ApplyMultipliers(_ context.Context, candidateID uuid.UUID, factors map[graph.Key]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	adjustments, ok := s.multipliers[candidateID]
	if !ok {
		adjustments = make(graph.Adjustments)
		s.multipliers[candidateID] = adjustments
	}
	for key, factor := range factors {
		if existing, ok := adjustments[key]; ok {
			adjustments[key] = existing * factor
		} else {
			adjustments[key] = factor
		}
	}
	return nil
}

// Multipliers returns the cumulative multipliers for a candidate.
func (s *MemoryStore) Multipliers(_ context.Context, candidateID uuid.UUID) (graph.Adjustments, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	adjustments := make(graph.Adjustments, len(s.multipliers[candidateID]))
	for key, mult := range s.multipliers[candidateID] {
		adjustments[key] = mult
	}
	return adjustments, nil
}

// GetPreview retrieves the cached preview row for a pair, or nil.
func (s *MemoryStore) GetPreview(_ context.Context, candidateID, jobID uuid.UUID) (*preview.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.previews[previewKey(candidateID, jobID)]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

// PutPreview overwrites the pair's cache row unless the stored row carries
// newer version tokens, in which case the stale write is discarded.
func (s *MemoryStore) PutPreview(_ context.Context, record *preview.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := previewKey(record.CandidateID, record.JobID)
	if existing, ok := s.previews[key]; ok {
		if existing.CandidateVersion.After(record.CandidateVersion) ||
			existing.JobVersion.After(record.JobVersion) {
			return nil
		}
	}
	copied := *record
	s.previews[key] = &copied
	return nil
}

// RecordFeedback appends a feedback event in receipt order.
func (s *MemoryStore) RecordFeedback(_ context.Context, event *types.FeedbackEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, *event)
	return nil
}

// ListFeedback returns the feedback events for a pair in receipt order.
func (s *MemoryStore) ListFeedback(_ context.Context, candidateID, jobID uuid.UUID) ([]types.FeedbackEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var events []types.FeedbackEvent
	for _, event := range s.feedback {
		if event.CandidateID == candidateID && event.JobID == jobID {
			events = append(events, event)
		}
	}
	return events, nil
}

func previewKey(candidateID, jobID uuid.UUID) string {
	return candidateID.String() + "/" + jobID.String()
}
