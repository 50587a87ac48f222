package matching

import (
	"fmt"

	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/types"
)

// Scoring policy defaults. These are tuning knobs, not structural
// invariants; Policy lets deployments override them.
const (
	// DefaultRequiredMultiplier is the extra importance given to required
	// competencies over optional ones.
	DefaultRequiredMultiplier = 1.5
	// DefaultSkillOnlyPenalty discounts coverage when every evidence item
	// is a bare Skill claim with no project or experience corroboration.
	DefaultSkillOnlyPenalty = 0.7
)

// Policy holds the scoring tuning knobs.
type Policy struct {
	RequiredMultiplier float64
	SkillOnlyPenalty   float64
}

// DefaultPolicy returns the standard scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		RequiredMultiplier: DefaultRequiredMultiplier,
		SkillOnlyPenalty:   DefaultSkillOnlyPenalty,
	}
}

// Scorer aggregates per-competency evidence into a single match strength
// with importance weighting and an evidence-quality penalty. Scoring is a
// pure computation: identical inputs always yield identical results.
type Scorer struct {
	policy Policy
}

// NewScorer creates a scorer. Zero policy fields fall back to defaults.
func NewScorer(policy Policy) *Scorer {
	if policy.RequiredMultiplier == 0 {
		policy.RequiredMultiplier = DefaultRequiredMultiplier
	}
	if policy.SkillOnlyPenalty == 0 {
		policy.SkillOnlyPenalty = DefaultSkillOnlyPenalty
	}
	return &Scorer{policy: policy}
}

// Score converts gathered evidence into a MatchResult. Weighted points are
// preferred over binary counting so a single weak skill-only match never
// counts the same as a deeply evidenced one, and required competencies weigh
// more than optional ones.
func (s *Scorer) Score(evidence []Evidence) *types.MatchResult {
	result := &types.MatchResult{
		Matched: make([]types.EvidenceMatch, 0, len(evidence)),
		Missing: make([]types.Competency, 0),
	}

	var pointsEarned, pointsPossible float64
	var requiredMatched, requiredTotal, optionalMatched, optionalTotal int

	for _, ev := range evidence {
		comp := ev.Competency
		required := comp.Importance == types.ImportanceRequired
		if required {
			requiredTotal++
		} else {
			optionalTotal++
		}

		coverage, status := s.coverage(ev)

		multiplier := 1.0
		if required {
			multiplier = s.policy.RequiredMultiplier
		}
		possible := comp.Weight * multiplier
		pointsPossible += possible
		pointsEarned += possible * coverage

		if status == types.StatusMissing {
			result.Missing = append(result.Missing, comp)
			continue
		}
		if status == types.StatusMatched {
			if required {
				requiredMatched++
			} else {
				optionalMatched++
			}
		}
		result.Matched = append(result.Matched, types.EvidenceMatch{
			Competency: comp,
			Similarity: ev.Best,
			Coverage:   coverage,
			Status:     status,
			Evidence:   ev.Items,
		})
	}

	if pointsPossible > 0 {
		result.MatchStrength = graph.Clamp(pointsEarned / pointsPossible)
	}
	result.RequiredCoverage = fmt.Sprintf("%d/%d", requiredMatched, requiredTotal)
	result.OptionalCoverage = fmt.Sprintf("%d/%d", optionalMatched, optionalTotal)
	return result
}

// coverage applies the threshold, partial-credit, and evidence-quality
// rules to one competency's evidence.
func (s *Scorer) coverage(ev Evidence) (float64, types.MatchStatus) {
	if len(ev.Items) == 0 {
		return 0, types.StatusMissing
	}

	var coverage float64
	var status types.MatchStatus
	if ev.Best >= ev.Competency.MatchThreshold {
		coverage = 1.0
		status = types.StatusMatched
	} else {
		coverage = ev.Best / ev.Competency.MatchThreshold
		status = types.StatusPartial
	}

	// A bare skill claim is weaker evidence than a demonstrated one.
	if skillOnly(ev.Items) {
		coverage *= s.policy.SkillOnlyPenalty
	}
	return graph.Clamp(coverage), status
}

// skillOnly reports whether every evidence item is a Skill node.
func skillOnly(items []types.EvidenceItem) bool {
	for _, item := range items {
		if item.NodeType != string(graph.NodeSkill) {
			return false
		}
	}
	return true
}
