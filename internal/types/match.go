package types

import "github.com/google/uuid"

// MatchStatus describes how well a single competency was covered.
type MatchStatus string

// Match statuses.
const (
	StatusMatched MatchStatus = "matched"
	StatusPartial MatchStatus = "partial"
	StatusMissing MatchStatus = "missing"
)

// EvidenceItem is one graph node supporting a competency match.
type EvidenceItem struct {
	NodeID     string  `json:"node_id"`
	NodeType   string  `json:"node_type"`
	Similarity float64 `json:"similarity"`
	Text       string  `json:"text"`
}

// EvidenceMatch is the per-competency outcome: the best similarity found,
// the coverage awarded after threshold and penalty rules, and up to a
// bounded number of supporting evidence items ordered by similarity.
type EvidenceMatch struct {
	Competency Competency     `json:"competency"`
	Similarity float64        `json:"similarity"`
	Coverage   float64        `json:"coverage"`
	Status     MatchStatus    `json:"status"`
	Evidence   []EvidenceItem `json:"evidence,omitempty"`
}

// MatchResult is the full match report for one candidate against one job.
// It is produced fresh on each scoring run and never mutated afterwards.
type MatchResult struct {
	MatchStrength    float64         `json:"match_strength"`
	RequiredCoverage string          `json:"required_coverage"`
	OptionalCoverage string          `json:"optional_coverage"`
	Matched          []EvidenceMatch `json:"matched"`
	Missing          []Competency    `json:"missing"`
}

// SelectedContent names the profile entities that appeared in any matched or
// partial evidence set. The document renderer uses it to decide emphasis.
type SelectedContent struct {
	ProjectIDs    []uuid.UUID `json:"project_ids"`
	SkillIDs      []uuid.UUID `json:"skill_ids"`
	MatchStrength float64     `json:"match_strength"`
}
