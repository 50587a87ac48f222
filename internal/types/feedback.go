package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Decision is a discrete human judgement on an application.
type Decision string

// Recruiter decisions.
const (
	DecisionShortlist Decision = "SHORTLIST"
	DecisionInterview Decision = "INTERVIEW"
	DecisionHire      Decision = "HIRE"
	DecisionReject    Decision = "REJECT"
)

// ParseDecision converts a raw string into a Decision.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionShortlist, DecisionInterview, DecisionHire, DecisionReject:
		return Decision(s), nil
	default:
		return "", fmt.Errorf("unknown decision %q", s)
	}
}

// FeedbackEvent records one human decision on a (candidate, job) pair.
// Repeated events compound; callers must submit each decision exactly once.
type FeedbackEvent struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	JobID       uuid.UUID `json:"job_id"`
	Decision    Decision  `json:"decision"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
