// Package ats merges extraction results into the candidate's ATS profile.
package ats

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/extraction"
	"clipers-engine/internal/models"
	"clipers-engine/internal/store"
)

// Defaults fill a section the extraction left empty so downstream matching
// always has something to score against.
var (
	defaultTechnicalSkills = []string{"Java", "Spring Boot", "React", "PostgreSQL", "JavaScript"}
	defaultSoftSkills      = []string{"Teamwork", "Communication", "Problem solving"}
	defaultLanguages       = []string{"Spanish", "English"}
	defaultEducation       = "Technical or university studies"
	defaultExperience      = "Professional experience in technology"
)

// Synthesizer rebuilds a candidate's ATS profile from one extraction result.
type Synthesizer struct {
	profiles store.ProfileStore
	logger   *zap.Logger
}

func NewSynthesizer(profiles store.ProfileStore, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{profiles: profiles, logger: logger}
}

// Synthesize loads (or creates) the user's profile, clears every derived
// collection, and repopulates it from the extraction result. The rebuilt
// profile is persisted in one transaction.
func (s *Synthesizer) Synthesize(ctx context.Context, userID, cliperID string, result *extraction.Result) (*models.ATSProfile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		profile = models.NewATSProfile(userID)
	} else if err != nil {
		return nil, apperrors.NewSynthesisError(userID, err)
	}

	profile.ClearDerived()
	profile.Summary = result.Transcription
	profile.CliperID = cliperID
	profile.UpdatedAt = time.Now().UTC()

	s.applyEducation(profile, result.Profile.Education)
	s.applyExperience(profile, result.Profile.Experience)
	s.applySkills(profile, result.Profile.Technologies, models.SkillTechnical, defaultTechnicalSkills)
	s.applySkills(profile, result.Profile.SoftSkills, models.SkillSoft, defaultSoftSkills)
	s.applyLanguages(profile, result.Profile.Languages)

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, apperrors.NewSynthesisError(userID, err)
	}

	s.logger.Info("ATS profile synthesized",
		zap.String("user_id", userID),
		zap.String("cliper_id", cliperID),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("languages", len(profile.Languages)))

	return profile, nil
}

func (s *Synthesizer) applyEducation(profile *models.ATSProfile, field string) {
	for _, entry := range extraction.SplitValues(field) {
		if profile.HasEducation(entry) {
			continue
		}
		profile.AddEducation(entry, entry, "")
	}
	if len(profile.Education) == 0 {
		profile.AddEducation(defaultEducation, defaultEducation, "")
	}
}

func (s *Synthesizer) applyExperience(profile *models.ATSProfile, field string) {
	start := time.Now().UTC().AddDate(-1, 0, 0)
	for _, entry := range extraction.SplitValues(field) {
		if profile.HasExperience(entry, entry) {
			continue
		}
		profile.AddExperience("", entry, entry, start, nil)
	}
	if len(profile.Experience) == 0 {
		profile.AddExperience("", defaultExperience, defaultExperience, start, nil)
	}
}

func (s *Synthesizer) applySkills(profile *models.ATSProfile, field string, category models.SkillCategory, defaults []string) {
	for _, name := range extraction.SplitValues(field) {
		if profile.HasSkill(name) {
			continue
		}
		profile.AddSkill(name, models.SkillIntermediate, category)
	}
	if !profile.HasSkillInCategory(category) {
		for _, name := range defaults {
			if !profile.HasSkill(name) {
				profile.AddSkill(name, models.SkillIntermediate, category)
			}
		}
	}
}

func (s *Synthesizer) applyLanguages(profile *models.ATSProfile, field string) {
	for _, name := range extraction.SplitValues(field) {
		if profile.HasLanguage(name) {
			continue
		}
		profile.AddLanguage(name, models.LanguageIntermediate)
	}
	if len(profile.Languages) == 0 {
		for _, name := range defaultLanguages {
			if !profile.HasLanguage(name) {
				profile.AddLanguage(name, models.LanguageIntermediate)
			}
		}
	}
}
