// Package matching scores candidates against jobs and orchestrates the
// candidate pool run that follows job creation.
package matching

import (
	"fmt"
	"strings"

	"clipers-engine/internal/models"
)

// Weights of the overall score.
const (
	skillWeight      = 0.5
	experienceWeight = 0.3
	locationWeight   = 0.2
)

// Score breaks the overall compatibility down into its sub-scores. All values
// are in [0, 1] and deterministic for fixed inputs.
type Score struct {
	Overall    float64
	Skill      float64
	Experience float64
	Location   float64
}

// Engine computes compatibility scores from a candidate's ATS profile.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Score computes the weighted compatibility between a candidate profile and a
// job. A nil profile scores zero on skills but still receives the neutral
// experience and location components.
func (e *Engine) Score(profile *models.ATSProfile, job *models.Job) Score {
	s := Score{
		Skill:      e.skillScore(profile, job),
		Experience: e.experienceScore(profile, job),
		Location:   e.locationScore(job),
	}
	s.Overall = skillWeight*s.Skill + experienceWeight*s.Experience + locationWeight*s.Location
	return s
}

func (e *Engine) skillScore(profile *models.ATSProfile, job *models.Job) float64 {
	if profile == nil || len(profile.Skills) == 0 {
		return 0
	}
	if len(job.Skills) == 0 {
		return 0.5
	}
	matched := 0
	for _, required := range job.Skills {
		if profile.HasSkill(required) {
			matched++
		}
	}
	return float64(matched) / float64(len(job.Skills))
}

func (e *Engine) experienceScore(profile *models.ATSProfile, job *models.Job) float64 {
	if profile == nil || len(profile.Experience) == 0 {
		return 0.2
	}
	years := profile.TotalExperienceYears()

	switch job.Type {
	case models.JobInternship:
		return 0.9
	case models.JobFullTime:
		switch {
		case years >= 5:
			return 0.9
		case years >= 2:
			return 0.7
		case years >= 1:
			return 0.5
		default:
			return 0.3
		}
	case models.JobPartTime, models.JobContract:
		if years >= 1 {
			return 0.8
		}
		return 0.6
	default:
		return 0.2
	}
}

// locationScore has no geolocation awareness. Remote or unset locations are a
// perfect fit, anything else gets a fixed neutral value.
func (e *Engine) locationScore(job *models.Job) float64 {
	location := strings.TrimSpace(job.Location)
	if location == "" || strings.Contains(strings.ToLower(location), "remote") {
		return 1.0
	}
	return 0.7
}

// MatchedSkills returns the job skill names the candidate also has,
// case-insensitive, preserving the job's casing.
func (e *Engine) MatchedSkills(profile *models.ATSProfile, job *models.Job) []string {
	if profile == nil {
		return nil
	}
	var matched []string
	for _, required := range job.Skills {
		if profile.HasSkill(required) {
			matched = append(matched, required)
		}
	}
	return matched
}

// Explain renders a human-readable summary of the score for the stored match.
func (e *Engine) Explain(s Score) string {
	return fmt.Sprintf("%s skill fit, %s experience fit, overall compatibility %.0f%%",
		bucket(s.Skill), bucket(s.Experience), s.Overall*100)
}

func bucket(value float64) string {
	switch {
	case value >= 0.8:
		return "excellent"
	case value >= 0.6:
		return "good"
	case value >= 0.4:
		return "moderate"
	default:
		return "low"
	}
}
