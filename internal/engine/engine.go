// Package engine provides the high-level orchestration for scoring a
// candidate against a job over the candidate's capability graph.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-graph/internal/competency"
	"github.com/jonathan/talent-graph/internal/embedding"
	"github.com/jonathan/talent-graph/internal/feedback"
	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/matching"
	"github.com/jonathan/talent-graph/internal/preview"
	"github.com/jonathan/talent-graph/internal/types"
)

// Store is the durable surface the engine depends on. Both the Postgres
// store and the in-memory store satisfy it.
type Store interface {
	UpsertCandidate(ctx context.Context, profile *types.CandidateProfile) error
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error)
	UpsertJob(ctx context.Context, job *types.JobRequirements) error
	GetJob(ctx context.Context, id uuid.UUID) (*types.JobRequirements, error)
	ApplyMultipliers(ctx context.Context, candidateID uuid.UUID, factors map[graph.Key]float64) error
	Multipliers(ctx context.Context, candidateID uuid.UUID) (graph.Adjustments, error)
	GetPreview(ctx context.Context, candidateID, jobID uuid.UUID) (*preview.Record, error)
	PutPreview(ctx context.Context, record *preview.Record) error
	RecordFeedback(ctx context.Context, event *types.FeedbackEvent) error
	ListFeedback(ctx context.Context, candidateID, jobID uuid.UUID) ([]types.FeedbackEvent, error)
}

// Config tunes the matching and scoring stages. Zero values fall back to
// the package defaults; neutralize a multiplier with 1.0 and keep all
// evidence with a small positive floor.
type Config struct {
	EvidenceFloor      float64
	EvidenceLimit      int
	RequiredMultiplier float64
	SkillOnlyPenalty   float64
}

// Evaluation is the full output of scoring one (candidate, job) pair.
type Evaluation struct {
	Result       *types.MatchResult
	Selected     types.SelectedContent
	Graph        *graph.Graph
	Competencies []types.Competency
}

// Engine wires the graph builder, normalizer, matcher, scorer, feedback
// adapter, and preview cache behind a single entry point.
type Engine struct {
	store      Store
	builder    *graph.Builder
	normalizer *competency.Normalizer
	matcher    *matching.Matcher
	scorer     *matching.Scorer
	adapter    *feedback.Adapter
	cache      *preview.Cache
	logger     *zap.Logger
}

// New assembles an engine over the given store and embedding service.
func New(store Store, embedder embedding.Service, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := matching.DefaultPolicy()
	if cfg.RequiredMultiplier > 0 {
		policy.RequiredMultiplier = cfg.RequiredMultiplier
	}
	if cfg.SkillOnlyPenalty > 0 {
		policy.SkillOnlyPenalty = cfg.SkillOnlyPenalty
	}
	return &Engine{
		store:      store,
		builder:    graph.NewBuilder(embedder),
		normalizer: competency.NewNormalizer(logger),
		matcher: matching.NewMatcher(embedder, matching.MatcherConfig{
			EvidenceFloor: cfg.EvidenceFloor,
			EvidenceLimit: cfg.EvidenceLimit,
		}, logger),
		scorer:  matching.NewScorer(policy),
		adapter: feedback.NewAdapter(store, logger),
		cache:   preview.NewCache(store, logger),
		logger:  logger,
	}
}

// Evaluate scores a candidate profile against a job's requirements. The
// capability graph is rebuilt from the profile with the candidate's durable
// weight adjustments applied, so repeated calls with unchanged inputs are
// deterministic.
func (e *Engine) Evaluate(ctx context.Context, candidate *types.CandidateProfile, job *types.JobRequirements) (*Evaluation, error) {
	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("invalid candidate profile: %w", err)
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job requirements: %w", err)
	}

	adjustments, err := e.store.Multipliers(ctx, candidate.ID)
	if err != nil {
		return nil, fmt.Errorf("loading weight adjustments: %w", err)
	}

	g, err := e.builder.Build(ctx, candidate, adjustments)
	if err != nil {
		return nil, fmt.Errorf("building capability graph: %w", err)
	}

	competencies := e.normalizer.NormalizeJob(job)
	evidence := e.matcher.Gather(ctx, g, competencies)
	result := e.scorer.Score(evidence)
	selected := matching.SelectContent(g, result)

	e.logger.Info("scored candidate against job",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("job_id", job.ID.String()),
		zap.Float64("match_strength", result.MatchStrength),
	)

	return &Evaluation{Result: result, Selected: selected, Graph: g, Competencies: competencies}, nil
}

// Score fetches both sides of a pair and evaluates them. The two fetches
// run concurrently.
func (e *Engine) Score(ctx context.Context, candidateID, jobID uuid.UUID) (*Evaluation, error) {
	candidate, job, err := e.fetchPair(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, candidate, job)
}

// Preview returns the cached match preview for a pair, recomputing only
// when the cache row is missing, stale, or a refresh is forced. The second
// return reports whether the result came from cache.
func (e *Engine) Preview(ctx context.Context, candidateID, jobID uuid.UUID, forceRefresh bool) (*preview.Record, bool, error) {
	candidate, job, err := e.fetchPair(ctx, candidateID, jobID)
	if err != nil {
		return nil, false, err
	}

	return e.cache.GetOrCompute(ctx, candidate, job, forceRefresh, func(ctx context.Context) (*preview.Record, error) {
		eval, err := e.Evaluate(ctx, candidate, job)
		if err != nil {
			return nil, err
		}
		return &preview.Record{
			CandidateID: candidateID,
			JobID:       jobID,
			Result:      *eval.Result,
			Selected:    eval.Selected,
		}, nil
	})
}

// ApplyFeedback records a recruiter decision and folds it into the
// candidate's durable edge weights. The pair is re-evaluated so the
// multipliers land on the evidence paths of the current match, then the
// event is appended to the feedback log.
func (e *Engine) ApplyFeedback(ctx context.Context, event *types.FeedbackEvent) (*Evaluation, error) {
	if _, err := feedback.Factor(event.Decision); err != nil {
		return nil, err
	}

	candidate, job, err := e.fetchPair(ctx, event.CandidateID, event.JobID)
	if err != nil {
		return nil, err
	}

	eval, err := e.Evaluate(ctx, candidate, job)
	if err != nil {
		return nil, err
	}

	if err := e.adapter.Apply(ctx, eval.Graph, event.CandidateID, eval.Result, event.Decision); err != nil {
		return nil, fmt.Errorf("applying feedback weights: %w", err)
	}
	if err := e.store.RecordFeedback(ctx, event); err != nil {
		return nil, fmt.Errorf("recording feedback event: %w", err)
	}

	return eval, nil
}

// ExportGraph rebuilds a candidate's capability graph and returns it in
// the portable export form.
func (e *Engine) ExportGraph(ctx context.Context, candidateID uuid.UUID) (*graph.GraphData, error) {
	candidate, err := e.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate: %w", err)
	}
	if candidate == nil {
		return nil, fmt.Errorf("candidate %s not found", candidateID)
	}

	adjustments, err := e.store.Multipliers(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("loading weight adjustments: %w", err)
	}
	g, err := e.builder.Build(ctx, candidate, adjustments)
	if err != nil {
		return nil, fmt.Errorf("building capability graph: %w", err)
	}
	return g.ExportData(), nil
}

// Store exposes the underlying store for profile and job management.
func (e *Engine) Store() Store {
	return e.store
}

func (e *Engine) fetchPair(ctx context.Context, candidateID, jobID uuid.UUID) (*types.CandidateProfile, *types.JobRequirements, error) {
	var candidate *types.CandidateProfile
	var job *types.JobRequirements

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidate, err = e.store.GetCandidate(gCtx, candidateID)
		if err != nil {
			return fmt.Errorf("fetching candidate: %w", err)
		}
		if candidate == nil {
			return fmt.Errorf("candidate %s not found", candidateID)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		job, err = e.store.GetJob(gCtx, jobID)
		if err != nil {
			return fmt.Errorf("fetching job: %w", err)
		}
		if job == nil {
			return fmt.Errorf("job %s not found", jobID)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return candidate, job, nil
}
