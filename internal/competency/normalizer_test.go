package competency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-graph/internal/types"
)

func TestClassify(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name     string
		category string
	}{
		{"Machine Learning Engineering", CategoryMLAI},
		{"NLP pipelines", CategoryMLAI},
		{"Kubernetes operations", CategoryPlatform},
		{"AWS infrastructure", CategoryPlatform},
		{"Stakeholder communication", CategoryProcess},
		{"Agile delivery", CategoryProcess},
		{"Distributed systems design", CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, n.Classify(tt.name).Category)
		})
	}
}

// A name hitting multiple buckets lands in the highest-priority one.
func TestClassifyPriorityOrder(t *testing.T) {
	n := NewNormalizer(nil)
	rule := n.Classify("ML platform leadership")
	assert.Equal(t, CategoryMLAI, rule.Category)
	assert.Equal(t, 1.0, rule.Weight)
	assert.Equal(t, 0.35, rule.MatchThreshold)
}

// Short keywords match whole tokens only: "training" must not hit "ai".
func TestClassifyShortKeywordsAreTokenBound(t *testing.T) {
	n := NewNormalizer(nil)
	assert.Equal(t, CategoryGeneral, n.Classify("Corporate training programs").Category)
	assert.Equal(t, CategoryMLAI, n.Classify("AI systems").Category)
	assert.Equal(t, CategoryMLAI, n.Classify("Applied ML").Category)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	n := NewNormalizer(nil)
	assert.Equal(t, CategoryPlatform, n.Classify("KUBERNETES").Category)
}

func TestNormalizeSkipsMalformedEntries(t *testing.T) {
	n := NewNormalizer(nil)
	entries := []types.RawCompetency{
		{Name: "Go services"},
		{Name: "   "},
		{Name: "", Description: "mystery requirement"},
		{Name: "Docker"},
	}

	competencies := n.Normalize(entries, types.ImportanceRequired)
	require.Len(t, competencies, 2)
	assert.Equal(t, "Go services", competencies[0].Name)
	assert.Equal(t, "Docker", competencies[1].Name)
	for _, comp := range competencies {
		assert.Equal(t, types.ImportanceRequired, comp.Importance)
	}
}

func TestNormalizeJob(t *testing.T) {
	n := NewNormalizer(nil)
	job := &types.JobRequirements{
		Required: []types.RawCompetency{{Name: "Machine learning"}},
		Optional: []types.RawCompetency{{Name: "Mentoring"}},
	}

	competencies := n.NormalizeJob(job)
	require.Len(t, competencies, 2)

	assert.Equal(t, types.ImportanceRequired, competencies[0].Importance)
	assert.Equal(t, CategoryMLAI, competencies[0].Category)

	assert.Equal(t, types.ImportanceOptional, competencies[1].Importance)
	assert.Equal(t, CategoryProcess, competencies[1].Category)
	assert.Equal(t, 0.5, competencies[1].Weight)
	assert.Equal(t, 0.30, competencies[1].MatchThreshold)
}

func TestNormalizerWithCustomRules(t *testing.T) {
	rules := []Rule{{Category: "DATA", Keywords: []string{"sql"}, Weight: 0.7, MatchThreshold: 0.4}}
	n := NewNormalizerWithRules(rules, nil)

	assert.Equal(t, "DATA", n.Classify("Advanced SQL").Category)
	// Anything else falls through to the general rule.
	assert.Equal(t, CategoryGeneral, n.Classify("Kubernetes").Category)
}
