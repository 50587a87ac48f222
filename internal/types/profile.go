// Package types defines the shared data model for candidate profiles,
// job competencies, and match reports.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProficiencyLevel is a candidate's self-reported skill level.
type ProficiencyLevel string

// Proficiency levels, ordered weakest to strongest.
const (
	ProficiencyBeginner     ProficiencyLevel = "BEGINNER"
	ProficiencyIntermediate ProficiencyLevel = "INTERMEDIATE"
	ProficiencyAdvanced     ProficiencyLevel = "ADVANCED"
	ProficiencyExpert       ProficiencyLevel = "EXPERT"
)

// SkillClaim is a skill the candidate claims, with proficiency and tenure.
// A claim with zero years of experience stays in the graph as evidence of
// the claim but contributes no weight until corroborated.
type SkillClaim struct {
	ID                    uuid.UUID        `json:"id" validate:"required"`
	Name                  string           `json:"name" validate:"required,min=1"`
	Category              string           `json:"category,omitempty"`
	Proficiency           ProficiencyLevel `json:"proficiency,omitempty"`
	YearsOfExperience     float64          `json:"years_of_experience"`
	AcquiredFromProjectID *uuid.UUID       `json:"acquired_from_project_id,omitempty"`
}

// Tool is a technology, framework, or platform referenced by a project.
type Tool struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Name     string    `json:"name" validate:"required,min=1"`
	Category string    `json:"category,omitempty"`
}

// Project is a completed piece of work used as evidence in the graph.
type Project struct {
	ID          uuid.UUID   `json:"id" validate:"required"`
	Title       string      `json:"title" validate:"required,min=1"`
	Description string      `json:"description,omitempty"`
	Outcomes    []string    `json:"outcomes,omitempty"`
	SkillIDs    []uuid.UUID `json:"skill_ids,omitempty"`
	ToolIDs     []uuid.UUID `json:"tool_ids,omitempty"`
}

// Experience is a work history entry.
type Experience struct {
	ID          uuid.UUID   `json:"id" validate:"required"`
	Company     string      `json:"company,omitempty"`
	Role        string      `json:"role" validate:"required,min=1"`
	Description string      `json:"description,omitempty"`
	SkillIDs    []uuid.UUID `json:"skill_ids,omitempty"`
}

// Education is a degree or certification entry.
type Education struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Degree      string    `json:"degree" validate:"required,min=1"`
	Field       string    `json:"field,omitempty"`
	Institution string    `json:"institution,omitempty"`
}

// Publication is a paper or article authored by the candidate.
type Publication struct {
	ID    uuid.UUID `json:"id" validate:"required"`
	Title string    `json:"title" validate:"required,min=1"`
	Venue string    `json:"venue,omitempty"`
}

// Award is a prize or recognition entry.
type Award struct {
	ID           uuid.UUID `json:"id" validate:"required"`
	Title        string    `json:"title" validate:"required,min=1"`
	Organization string    `json:"organization,omitempty"`
}

// CandidateProfile is the structured candidate record consumed by the graph
// builder. It arrives fully parsed from an external collaborator; free text
// never enters this package. UpdatedAt doubles as the candidate's version
// token for preview-cache staleness checks.
type CandidateProfile struct {
	ID           uuid.UUID     `json:"id" validate:"required"`
	FullName     string        `json:"full_name" validate:"required,min=1"`
	Skills       []SkillClaim  `json:"skills,omitempty" validate:"dive"`
	Projects     []Project     `json:"projects,omitempty" validate:"dive"`
	Experiences  []Experience  `json:"experiences,omitempty" validate:"dive"`
	Education    []Education   `json:"education,omitempty" validate:"dive"`
	Publications []Publication `json:"publications,omitempty" validate:"dive"`
	Awards       []Award       `json:"awards,omitempty" validate:"dive"`
	Tools        []Tool        `json:"tools,omitempty" validate:"dive"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Validate validates the CandidateProfile using the validator.
func (p *CandidateProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// VersionToken returns the monotonic token used for cache staleness checks.
func (p *CandidateProfile) VersionToken() time.Time {
	return p.UpdatedAt
}
