package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-graph/internal/config"
	"github.com/jonathan/talent-graph/internal/engine"
)

var exportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export a candidate's capability graph as JSON",
	Long: `Rebuilds the candidate's capability graph from the stored profile, with all
durable feedback adjustments applied, and prints it in the portable node/edge
form for inspection or downstream tooling.`,
	RunE: runExportCmd,
}

var (
	exportCandidateID string
	exportAPIKey      string
	exportModel       string
	exportDBURL       string
	exportJSONLogs    bool
	exportVerbose     bool
)

func init() {
	exportCommand.Flags().StringVar(&exportCandidateID, "candidate-id", "", "Candidate UUID")
	exportCommand.Flags().StringVar(&exportAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	exportCommand.Flags().StringVar(&exportModel, "embedding-model", "", "Embedding model name")
	exportCommand.Flags().StringVar(&exportDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	exportCommand.Flags().BoolVar(&exportJSONLogs, "json-logs", false, "Emit structured JSON logs")
	exportCommand.Flags().BoolVarP(&exportVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = exportCommand.MarkFlagRequired("candidate-id")

	rootCmd.AddCommand(exportCommand)
}

func runExportCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	candidateID, err := uuid.Parse(exportCandidateID)
	if err != nil {
		return fmt.Errorf("invalid candidate-id: %w", err)
	}

	cfg := config.Config{
		APIKey:         exportAPIKey,
		EmbeddingModel: exportModel,
		DatabaseURL:    exportDBURL,
		Verbose:        exportVerbose,
		JSONLogs:       exportJSONLogs,
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

	data, err := eng.ExportGraph(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	return printJSON(data)
}
