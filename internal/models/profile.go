package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillExpert       SkillLevel = "EXPERT"
)

type SkillCategory string

const (
	SkillTechnical SkillCategory = "TECHNICAL"
	SkillSoft      SkillCategory = "SOFT"
	SkillLanguage  SkillCategory = "LANGUAGE"
)

type LanguageLevel string

const (
	LanguageBasic        LanguageLevel = "BASIC"
	LanguageIntermediate LanguageLevel = "INTERMEDIATE"
	LanguageAdvanced     LanguageLevel = "ADVANCED"
	LanguageNative       LanguageLevel = "NATIVE"
)

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
}

type Experience struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"` // nil means ongoing
	Description string     `json:"description"`
}

type Skill struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Level    SkillLevel    `json:"level"`
	Category SkillCategory `json:"category"`
}

type Language struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Level LanguageLevel `json:"level"`
}

// ATSProfile is the applicant-tracking profile derived from a candidate's
// Cliper. At most one exists per candidate.
type ATSProfile struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	Summary    string       `json:"summary"`
	CliperID   string       `json:"cliperId,omitempty"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
	Skills     []Skill      `json:"skills"`
	Languages  []Language   `json:"languages"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func NewATSProfile(userID string) *ATSProfile {
	now := time.Now().UTC()
	return &ATSProfile{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *ATSProfile) AddEducation(institution, degree, field string) {
	p.Education = append(p.Education, Education{
		ID:          uuid.New().String(),
		Institution: institution,
		Degree:      degree,
		Field:       field,
	})
}

func (p *ATSProfile) AddExperience(company, position, description string, start time.Time, end *time.Time) {
	p.Experience = append(p.Experience, Experience{
		ID:          uuid.New().String(),
		Company:     company,
		Position:    position,
		StartDate:   start,
		EndDate:     end,
		Description: description,
	})
}

func (p *ATSProfile) AddSkill(name string, level SkillLevel, category SkillCategory) {
	p.Skills = append(p.Skills, Skill{
		ID:       uuid.New().String(),
		Name:     name,
		Level:    level,
		Category: category,
	})
}

func (p *ATSProfile) AddLanguage(name string, level LanguageLevel) {
	p.Languages = append(p.Languages, Language{
		ID:    uuid.New().String(),
		Name:  name,
		Level: level,
	})
}

// HasEducation reports whether an entry with the same institution or degree
// already exists (exact match, case-insensitive).
func (p *ATSProfile) HasEducation(value string) bool {
	for _, e := range p.Education {
		if strings.EqualFold(e.Institution, value) || strings.EqualFold(e.Degree, value) {
			return true
		}
	}
	return false
}

// HasExperience reports whether an entry with the same position and
// description already exists.
func (p *ATSProfile) HasExperience(position, description string) bool {
	for _, e := range p.Experience {
		if strings.EqualFold(e.Position, position) && strings.EqualFold(e.Description, description) {
			return true
		}
	}
	return false
}

// HasSkill reports whether a skill with the given name exists, case-insensitive.
func (p *ATSProfile) HasSkill(name string) bool {
	for _, s := range p.Skills {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

// HasSkillInCategory reports whether any skill of the category exists.
func (p *ATSProfile) HasSkillInCategory(category SkillCategory) bool {
	for _, s := range p.Skills {
		if s.Category == category {
			return true
		}
	}
	return false
}

// HasLanguage reports whether a language with the given name exists, case-insensitive.
func (p *ATSProfile) HasLanguage(name string) bool {
	for _, l := range p.Languages {
		if strings.EqualFold(l.Name, name) {
			return true
		}
	}
	return false
}

// ClearDerived empties every collection populated by synthesis. Re-synthesis
// always clears before re-adding, so manual entries added between Cliper
// uploads do not survive the next upload.
func (p *ATSProfile) ClearDerived() {
	p.Education = nil
	p.Experience = nil
	p.Skills = nil
	p.Languages = nil
}

// TotalExperienceYears sums whole-year durations across all experience
// entries; open-ended entries are measured to now.
func (p *ATSProfile) TotalExperienceYears() int {
	total := 0
	now := time.Now().UTC()
	for _, e := range p.Experience {
		end := now
		if e.EndDate != nil {
			end = *e.EndDate
		}
		total += wholeYears(e.StartDate, end)
	}
	return total
}

func wholeYears(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	years := end.Year() - start.Year()
	if end.YearDay() < start.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
