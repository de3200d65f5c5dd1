package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCliperTransitions(t *testing.T) {
	c := NewCliper("user-1", "pitch", "intro", "https://cdn/v.mp4", 45)
	assert.Equal(t, CliperUploaded, c.Status)

	assert.True(t, c.Transition(CliperProcessing))
	assert.True(t, c.Transition(CliperDone))

	// DONE is terminal.
	assert.False(t, c.Transition(CliperProcessing))
	assert.False(t, c.Transition(CliperFailed))
	assert.False(t, c.Transition(CliperUploaded))
	assert.Equal(t, CliperDone, c.Status)
}

func TestCliperFailureAndRetryPath(t *testing.T) {
	c := NewCliper("user-1", "pitch", "intro", "https://cdn/v.mp4", 45)

	assert.True(t, c.Transition(CliperProcessing))
	assert.True(t, c.Transition(CliperFailed))
	assert.True(t, c.HasProcessingFailed())

	// Retry path: FAILED goes back to UPLOADED, nothing else.
	assert.False(t, c.CanTransition(CliperDone))
	assert.True(t, c.Transition(CliperUploaded))
	assert.Equal(t, CliperUploaded, c.Status)
}

func TestCliperEditability(t *testing.T) {
	c := NewCliper("user-1", "pitch", "intro", "https://cdn/v.mp4", 45)
	assert.True(t, c.CanBeEdited())

	c.Transition(CliperProcessing)
	assert.False(t, c.CanBeEdited())

	c.Transition(CliperFailed)
	assert.True(t, c.CanBeEdited())
}

func TestTransitionBumpsUpdatedAt(t *testing.T) {
	c := NewCliper("user-1", "pitch", "intro", "https://cdn/v.mp4", 45)
	before := c.UpdatedAt
	time.Sleep(time.Millisecond)

	assert.True(t, c.Transition(CliperProcessing))
	assert.True(t, c.UpdatedAt.After(before))

	stale := c.UpdatedAt
	assert.False(t, c.Transition(CliperUploaded))
	assert.Equal(t, stale, c.UpdatedAt)
}

func TestTotalExperienceYears(t *testing.T) {
	p := NewATSProfile("user-1")
	assert.Equal(t, 0, p.TotalExperienceYears())

	now := time.Now().UTC()

	// Closed entry: exactly 3 years.
	end := now.AddDate(-1, 0, 0)
	start := end.AddDate(-3, 0, 0)
	p.AddExperience("Acme", "Engineer", "backend", start, &end)
	assert.Equal(t, 3, p.TotalExperienceYears())

	// Open-ended entry measured to now: 2 more years.
	p.AddExperience("Globex", "Senior Engineer", "platform", now.AddDate(-2, 0, -1), nil)
	assert.Equal(t, 5, p.TotalExperienceYears())

	// Inverted range contributes zero.
	badEnd := now.AddDate(-5, 0, 0)
	p.AddExperience("Oops", "Role", "", now, &badEnd)
	assert.Equal(t, 5, p.TotalExperienceYears())
}

func TestClearDerived(t *testing.T) {
	p := NewATSProfile("user-1")
	p.AddEducation("State University", "BSc", "CS")
	p.AddSkill("Go", SkillIntermediate, SkillTechnical)
	p.AddLanguage("English", LanguageIntermediate)
	p.AddExperience("Acme", "Engineer", "", time.Now().UTC().AddDate(-1, 0, 0), nil)

	p.ClearDerived()

	assert.Empty(t, p.Education)
	assert.Empty(t, p.Experience)
	assert.Empty(t, p.Skills)
	assert.Empty(t, p.Languages)
}
