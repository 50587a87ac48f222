// Package competency normalizes raw job requirements into classified,
// weighted competency records.
package competency

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/talent-graph/internal/types"
)

// Category names. Classification tries them in this priority order and the
// first keyword hit wins.
const (
	CategoryMLAI     = "ML_AI"
	CategoryPlatform = "PLATFORM"
	CategoryProcess  = "PROCESS"
	CategoryGeneral  = "GENERAL"
)

// Rule binds a category to its keyword bucket and its (weight, threshold)
// pair. Rules are data, not branching code: adding a category is an addition
// to the table, not a rewrite.
type Rule struct {
	Category       string
	Keywords       []string
	Weight         float64
	MatchThreshold float64
}

// DefaultRules returns the standard classification table in priority order.
// The keyword sets and the (weight, threshold) pairs are tuning knobs;
// callers may supply their own table to NewNormalizerWithRules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: CategoryMLAI,
			Keywords: []string{
				"machine learning", "deep learning", "neural", "nlp",
				"natural language", "computer vision", "llm", "data science",
				"pytorch", "tensorflow", "ml", "ai",
			},
			Weight:         1.0,
			MatchThreshold: 0.35,
		},
		{
			Category: CategoryPlatform,
			Keywords: []string{
				"kubernetes", "docker", "cloud", "aws", "gcp", "azure",
				"infrastructure", "devops", "ci/cd", "terraform", "linux",
				"deployment", "platform",
			},
			Weight:         0.9,
			MatchThreshold: 0.38,
		},
		{
			Category: CategoryProcess,
			Keywords: []string{
				"communication", "leadership", "agile", "scrum",
				"collaboration", "mentoring", "teamwork", "stakeholder",
				"management", "presentation",
			},
			Weight:         0.5,
			MatchThreshold: 0.30,
		},
	}
}

// generalRule is the fallback when no keyword bucket matches.
var generalRule = Rule{
	Category:       CategoryGeneral,
	Weight:         0.8,
	MatchThreshold: 0.35,
}

// Normalizer classifies job requirements into categories and assigns
// importance weights and similarity acceptance thresholds.
type Normalizer struct {
	rules  []Rule
	logger *zap.Logger
}

// NewNormalizer creates a normalizer with the default classification table.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return NewNormalizerWithRules(DefaultRules(), logger)
}

// NewNormalizerWithRules creates a normalizer with a custom table. Rules are
// evaluated in slice order.
func NewNormalizerWithRules(rules []Rule, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{rules: rules, logger: logger}
}

// Normalize converts raw entries into competency records, skipping malformed
// entries (missing name) rather than failing the batch.
func (n *Normalizer) Normalize(entries []types.RawCompetency, importance types.CompetencyImportance) []types.Competency {
	competencies := make([]types.Competency, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			n.logger.Warn("skipping malformed competency",
				zap.String("importance", string(importance)),
				zap.String("description", entry.Description))
			continue
		}
		rule := n.Classify(name)
		competencies = append(competencies, types.Competency{
			Name:           name,
			Description:    strings.TrimSpace(entry.Description),
			Importance:     importance,
			Category:       rule.Category,
			Weight:         rule.Weight,
			MatchThreshold: rule.MatchThreshold,
		})
	}
	return competencies
}

// NormalizeJob normalizes both the required and optional competencies of a
// job in one pass.
func (n *Normalizer) NormalizeJob(job *types.JobRequirements) []types.Competency {
	competencies := n.Normalize(job.Required, types.ImportanceRequired)
	return append(competencies, n.Normalize(job.Optional, types.ImportanceOptional)...)
}

// Classify assigns a competency name to the first matching category rule, in
// priority order. The match is a case-insensitive substring test against the
// rule's keyword bucket; names with no hit fall through to GENERAL.
func (n *Normalizer) Classify(name string) Rule {
	lower := strings.ToLower(name)
	for _, rule := range n.rules {
		for _, keyword := range rule.Keywords {
			if matchesKeyword(lower, keyword) {
				return rule
			}
		}
	}
	return generalRule
}

// matchesKeyword reports whether a lowercased name contains the keyword.
// Very short keywords ("ml", "ai") match whole tokens only, so "training"
// does not land in the ML bucket.
func matchesKeyword(lower, keyword string) bool {
	if len(keyword) > 3 {
		return strings.Contains(lower, keyword)
	}
	for _, token := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if token == keyword {
			return true
		}
	}
	return false
}
