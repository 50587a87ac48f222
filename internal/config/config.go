// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Candidate string `json:"candidate,omitempty"` // Path to candidate profile JSON file
	Job       string `json:"job,omitempty"`       // Path to job requirements JSON file

	// Embedding
	APIKey         string `json:"api_key,omitempty"`         // Gemini API key
	EmbeddingModel string `json:"embedding_model,omitempty"` // Embedding model name

	// Matching knobs. Zero means "use the built-in default", so a literal
	// zero cannot be configured: use a small positive floor to keep all
	// evidence, and 1.0 to neutralize either multiplier.
	EvidenceFloor      float64 `json:"evidence_floor,omitempty"`      // Minimum similarity for evidence (0.0-1.0)
	EvidenceLimit      int     `json:"evidence_limit,omitempty"`      // Max evidence items per competency
	RequiredMultiplier float64 `json:"required_multiplier,omitempty"` // Weight boost for required competencies
	SkillOnlyPenalty   float64 `json:"skill_only_penalty,omitempty"`  // Coverage discount for uncorroborated skills

	// Behavior
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	JSONLogs    bool   `json:"json_logs,omitempty"`    // Emit structured JSON logs
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	ListenAddr  string `json:"listen_addr,omitempty"`  // HTTP listen address for serve mode
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.EvidenceFloor < 0 || c.EvidenceFloor > 1 {
		return fmt.Errorf("config error: 'evidence_floor' must be within [0, 1]")
	}
	if c.EvidenceLimit < 0 {
		return fmt.Errorf("config error: 'evidence_limit' must be non-negative")
	}
	if c.RequiredMultiplier < 0 {
		return fmt.Errorf("config error: 'required_multiplier' must be non-negative")
	}
	if c.SkillOnlyPenalty < 0 || c.SkillOnlyPenalty > 1 {
		return fmt.Errorf("config error: 'skill_only_penalty' must be within [0, 1]")
	}

	// Validate file paths exist (if specified)
	if c.Candidate != "" {
		if _, err := os.Stat(c.Candidate); os.IsNotExist(err) {
			return fmt.Errorf("config error: candidate file not found: %s", c.Candidate)
		}
	}
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Candidate == "" {
		result.Candidate = defaults.Candidate
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}

	// Int fields: use default if zero
	if result.EvidenceLimit == 0 {
		result.EvidenceLimit = defaults.EvidenceLimit
	}

	// Float fields
	if result.EvidenceFloor == 0 {
		result.EvidenceFloor = defaults.EvidenceFloor
	}
	if result.RequiredMultiplier == 0 {
		result.RequiredMultiplier = defaults.RequiredMultiplier
	}
	if result.SkillOnlyPenalty == 0 {
		result.SkillOnlyPenalty = defaults.SkillOnlyPenalty
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
