package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CompetencyImportance marks whether a competency is required or nice-to-have.
type CompetencyImportance string

// Importance values.
const (
	ImportanceRequired CompetencyImportance = "REQUIRED"
	ImportanceOptional CompetencyImportance = "OPTIONAL"
)

// RawCompetency is a job requirement as delivered by the external
// text-to-structure collaborator. Entries may arrive malformed (missing
// name); the normalizer skips those rather than failing the whole job.
type RawCompetency struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Competency is a normalized, classified job requirement. Derived once per
// job version and immutable afterwards.
type Competency struct {
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	Importance     CompetencyImportance `json:"importance"`
	Category       string               `json:"category"`
	Weight         float64              `json:"weight"`
	MatchThreshold float64              `json:"match_threshold"`
}

// JobRequirements is the structured job record consumed by the matcher.
// UpdatedAt doubles as the job's version token.
type JobRequirements struct {
	ID       uuid.UUID       `json:"id" validate:"required"`
	Title    string          `json:"title,omitempty"`
	Company  string          `json:"company,omitempty"`
	Required []RawCompetency `json:"required_competencies,omitempty"`
	Optional []RawCompetency `json:"optional_competencies,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Validate validates the JobRequirements using the validator.
func (j *JobRequirements) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}

// VersionToken returns the monotonic token used for cache staleness checks.
func (j *JobRequirements) VersionToken() time.Time {
	return j.UpdatedAt
}
