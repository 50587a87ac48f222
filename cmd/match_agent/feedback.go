package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-graph/internal/config"
	"github.com/jonathan/talent-graph/internal/engine"
	"github.com/jonathan/talent-graph/internal/types"
)

var feedbackCommand = &cobra.Command{
	Use:   "feedback",
	Short: "Record a recruiter decision for a candidate/job pair",
	Long: `Records one SHORTLIST, INTERVIEW, HIRE, or REJECT decision. The decision's
multiplier is folded into the candidate's durable edge weights along the
evidence paths of the current match, so it influences every future scoring
run for this candidate.`,
	RunE: runFeedbackCmd,
}

var (
	feedbackCandidateID string
	feedbackJobID       string
	feedbackDecision    string
	feedbackReason      string
	feedbackAPIKey      string
	feedbackModel       string
	feedbackDBURL       string
	feedbackVerbose     bool
	feedbackJSONLogs    bool
)

func init() {
	feedbackCommand.Flags().StringVar(&feedbackCandidateID, "candidate-id", "", "Candidate UUID")
	feedbackCommand.Flags().StringVar(&feedbackJobID, "job-id", "", "Job UUID")
	feedbackCommand.Flags().StringVar(&feedbackDecision, "decision", "", "Decision: SHORTLIST, INTERVIEW, HIRE, or REJECT")
	feedbackCommand.Flags().StringVar(&feedbackReason, "reason", "", "Optional free-text reason")
	feedbackCommand.Flags().StringVar(&feedbackAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	feedbackCommand.Flags().StringVar(&feedbackModel, "embedding-model", "", "Embedding model name")
	feedbackCommand.Flags().StringVar(&feedbackDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	feedbackCommand.Flags().BoolVarP(&feedbackVerbose, "verbose", "v", false, "Print detailed debug information")
	feedbackCommand.Flags().BoolVar(&feedbackJSONLogs, "json-logs", false, "Emit structured JSON logs")

	_ = feedbackCommand.MarkFlagRequired("candidate-id")
	_ = feedbackCommand.MarkFlagRequired("job-id")
	_ = feedbackCommand.MarkFlagRequired("decision")

	rootCmd.AddCommand(feedbackCommand)
}

func runFeedbackCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateID, err := uuid.Parse(feedbackCandidateID)
	if err != nil {
		return fmt.Errorf("invalid candidate-id: %w", err)
	}
	jobID, err := uuid.Parse(feedbackJobID)
	if err != nil {
		return fmt.Errorf("invalid job-id: %w", err)
	}
	decision, err := types.ParseDecision(feedbackDecision)
	if err != nil {
		return err
	}

	cfg := config.Config{
		APIKey:         feedbackAPIKey,
		EmbeddingModel: feedbackModel,
		DatabaseURL:    feedbackDBURL,
		Verbose:        feedbackVerbose,
		JSONLogs:       feedbackJSONLogs,
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = embedder.Close() }()

	store, closeStore, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	eng := engine.New(store, embedder, engineConfig(cfg), log)

	event := &types.FeedbackEvent{
		CandidateID: candidateID,
		JobID:       jobID,
		Decision:    decision,
		Reason:      feedbackReason,
		CreatedAt:   time.Now().UTC(),
	}

	eval, err := eng.ApplyFeedback(ctx, event)
	if err != nil {
		return fmt.Errorf("feedback failed: %w", err)
	}

	return printJSON(map[string]any{
		"event":        event,
		"match_result": eval.Result,
	})
}
