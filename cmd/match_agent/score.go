package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-graph/internal/config"
	"github.com/jonathan/talent-graph/internal/engine"
	"github.com/jonathan/talent-graph/internal/observability"
)

var scoreCommand = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate against a job",
	Long: `Builds the candidate's capability graph, gathers semantic evidence for each
job competency, and prints the match report as JSON.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runScoreCmd,
}

var (
	scoreConfigPath string
	scoreCandidate  string
	scoreJob        string
	scoreAPIKey     string
	scoreModel      string
	scoreVerbose    bool
	scoreJSONLogs   bool
	scoreDBURL      string
)

func init() {
	// Config file flag (processed first)
	scoreCommand.Flags().StringVar(&scoreConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	scoreCommand.Flags().StringVarP(&scoreCandidate, "candidate", "c", "", "Path to candidate profile JSON file")
	scoreCommand.Flags().StringVarP(&scoreJob, "job", "j", "", "Path to job requirements JSON file")
	scoreCommand.Flags().StringVar(&scoreModel, "embedding-model", "", "Embedding model name")
	scoreCommand.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print detailed debug information")
	scoreCommand.Flags().BoolVar(&scoreJSONLogs, "json-logs", false, "Emit structured JSON logs")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	scoreCommand.Flags().StringVar(&scoreAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for durable weights and previews
	scoreCommand.Flags().StringVar(&scoreDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var; in-memory when unset)")

	rootCmd.AddCommand(scoreCommand)
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if scoreConfigPath != "" {
		loadedCfg, err := config.LoadConfig(scoreConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("candidate") {
		cfg.Candidate = scoreCandidate
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = scoreJob
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = scoreAPIKey
	}
	if cmd.Flags().Changed("embedding-model") {
		cfg.EmbeddingModel = scoreModel
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = scoreVerbose
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.JSONLogs = scoreJSONLogs
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = scoreDBURL
	}

	// Step 3: Validate required fields
	if cfg.Candidate == "" {
		return fmt.Errorf("--candidate is required (via flag or config)")
	}
	if cfg.Job == "" {
		return fmt.Errorf("--job is required (via flag or config)")
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	candidate, err := loadCandidateFile(cfg.Candidate)
	if err != nil {
		return err
	}
	job, err := loadJobFile(cfg.Job)
	if err != nil {
		return err
	}

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

	if err := store.UpsertCandidate(ctx, candidate); err != nil {
		return fmt.Errorf("failed to store candidate: %w", err)
	}
	if err := store.UpsertJob(ctx, job); err != nil {
		return fmt.Errorf("failed to store job: %w", err)
	}

	eval, err := eng.Evaluate(ctx, candidate, job)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintGraphSummary(eval.Graph)
		printer.PrintCompetencies(eval.Competencies)
		printer.PrintMatchResult(eval.Result)
		printer.PrintSelectedContent(&eval.Selected)
	}

	return printJSON(map[string]any{
		"match_result":     eval.Result,
		"selected_content": eval.Selected,
	})
}
