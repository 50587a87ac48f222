package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *CandidateProfile {
	return &CandidateProfile{
		ID:       uuid.New(),
		FullName: "Ada Lovelace",
		Skills: []SkillClaim{
			{ID: uuid.New(), Name: "Go", Proficiency: ProficiencyAdvanced, YearsOfExperience: 4},
		},
		UpdatedAt: time.Now().UTC(),
	}
}

func TestCandidateProfileValidate(t *testing.T) {
	profile := validProfile()
	require.NoError(t, profile.Validate())
}

func TestCandidateProfileValidateMissingName(t *testing.T) {
	profile := validProfile()
	profile.FullName = ""
	assert.Error(t, profile.Validate())
}

func TestCandidateProfileValidateMissingSkillName(t *testing.T) {
	profile := validProfile()
	profile.Skills = append(profile.Skills, SkillClaim{ID: uuid.New()})
	assert.Error(t, profile.Validate())
}

func TestCandidateProfileVersionToken(t *testing.T) {
	profile := validProfile()
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	profile.UpdatedAt = updated
	assert.Equal(t, updated, profile.VersionToken())
}

func TestJobRequirementsValidate(t *testing.T) {
	job := &JobRequirements{
		ID:       uuid.New(),
		Title:    "ML Engineer",
		Required: []RawCompetency{{Name: "machine learning"}},
	}
	require.NoError(t, job.Validate())

	job.ID = uuid.Nil
	assert.Error(t, job.Validate())
}
