package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/talent-graph/internal/config"
	"github.com/jonathan/talent-graph/internal/db"
	"github.com/jonathan/talent-graph/internal/embedding"
	"github.com/jonathan/talent-graph/internal/engine"
	"github.com/jonathan/talent-graph/internal/logger"
	"github.com/jonathan/talent-graph/internal/schemas"
	"github.com/jonathan/talent-graph/internal/types"
)

// loadCandidateFile reads, schema-validates, and parses a candidate profile.
func loadCandidateFile(path string) (*types.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate file %s: %w", path, err)
	}
	if err := schemas.ValidateCandidateProfile(data); err != nil {
		return nil, fmt.Errorf("candidate file %s: %w", path, err)
	}
	var profile types.CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse candidate file %s: %w", path, err)
	}
	return &profile, nil
}

// loadJobFile reads, schema-validates, and parses a job requirements file.
func loadJobFile(path string) (*types.JobRequirements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %s: %w", path, err)
	}
	if err := schemas.ValidateJobRequirements(data); err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}
	var job types.JobRequirements
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}
	return &job, nil
}

// newLogger builds the process logger from config.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(cfg.JSONLogs, cfg.Verbose)
}

// newEmbedder creates the Gemini embedding service. The API key comes from
// the config or the GEMINI_API_KEY environment variable.
func newEmbedder(ctx context.Context, cfg config.Config) (embedding.Service, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	return embedding.NewGeminiService(ctx, apiKey, cfg.EmbeddingModel)
}

// newStore connects to Postgres when a URL is configured, falling back to
// the in-memory store for single-shot runs.
func newStore(ctx context.Context, cfg config.Config, log *zap.Logger) (engine.Store, func(), error) {
	databaseURL := cfg.DatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		log.Debug("no database configured, using in-memory store")
		return db.NewMemoryStore(), func() {}, nil
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	return database, database.Close, nil
}

// engineConfig maps CLI config onto engine tuning knobs.
func engineConfig(cfg config.Config) engine.Config {
	return engine.Config{
		EvidenceFloor:      cfg.EvidenceFloor,
		EvidenceLimit:      cfg.EvidenceLimit,
		RequiredMultiplier: cfg.RequiredMultiplier,
		SkillOnlyPenalty:   cfg.SkillOnlyPenalty,
	}
}

// printJSON writes indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
