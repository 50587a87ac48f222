package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-graph/internal/config"
	"github.com/jonathan/talent-graph/internal/engine"
)

var previewCommand = &cobra.Command{
	Use:   "preview",
	Short: "Get the cached match preview for a candidate/job pair",
	Long: `Returns the stored match preview for a pair, recomputing it only when the
cache row is missing, either side has been updated since it was computed, or
--force is set. Requires a database so previews survive between runs.`,
	RunE: runPreviewCmd,
}

var (
	previewCandidateID string
	previewJobID       string
	previewForce       bool
	previewAPIKey      string
	previewModel       string
	previewDBURL       string
	previewVerbose     bool
	previewJSONLogs    bool
)

func init() {
	previewCommand.Flags().StringVar(&previewCandidateID, "candidate-id", "", "Candidate UUID")
	previewCommand.Flags().StringVar(&previewJobID, "job-id", "", "Job UUID")
	previewCommand.Flags().BoolVar(&previewForce, "force", false, "Recompute even if the cached preview is still valid")
	previewCommand.Flags().StringVar(&previewAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	previewCommand.Flags().StringVar(&previewModel, "embedding-model", "", "Embedding model name")
	previewCommand.Flags().StringVar(&previewDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	previewCommand.Flags().BoolVarP(&previewVerbose, "verbose", "v", false, "Print detailed debug information")
	previewCommand.Flags().BoolVar(&previewJSONLogs, "json-logs", false, "Emit structured JSON logs")

	_ = previewCommand.MarkFlagRequired("candidate-id")
	_ = previewCommand.MarkFlagRequired("job-id")

	rootCmd.AddCommand(previewCommand)
}

func runPreviewCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateID, err := uuid.Parse(previewCandidateID)
	if err != nil {
		return fmt.Errorf("invalid candidate-id: %w", err)
	}
	jobID, err := uuid.Parse(previewJobID)
	if err != nil {
		return fmt.Errorf("invalid job-id: %w", err)
	}

	cfg := config.Config{
		APIKey:         previewAPIKey,
		EmbeddingModel: previewModel,
		DatabaseURL:    previewDBURL,
		Verbose:        previewVerbose,
		JSONLogs:       previewJSONLogs,
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

	record, cached, err := eng.Preview(ctx, candidateID, jobID, previewForce)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	return printJSON(map[string]any{
		"preview": record,
		"cached":  cached,
	})
}
