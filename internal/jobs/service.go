// Package jobs handles job creation and kicks off candidate matching.
package jobs

import (
	"context"
	"errors"

	"go.uber.org/zap"

	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/models"
	"clipers-engine/internal/store"
)

// Indexer writes a job into the search index.
type Indexer interface {
	Index(ctx context.Context, job *models.Job) error
}

// Matcher starts a candidate pool run for the job.
type Matcher interface {
	MatchJob(job *models.Job)
}

// CreateRequest carries one job posting.
type CreateRequest struct {
	CompanyID    string
	Title        string
	Description  string
	Requirements []string
	Skills       []string
	Location     string
	Type         models.JobType
	SalaryMin    float64
	SalaryMax    float64
}

// Service validates and persists jobs. Search indexing is best-effort and
// matching runs in the background; neither can fail a creation that was
// persisted.
type Service struct {
	users   store.UserStore
	jobs    store.JobStore
	indexer Indexer
	matcher Matcher
	logger  *zap.Logger
}

func NewService(users store.UserStore, jobs store.JobStore, indexer Indexer, matcher Matcher, logger *zap.Logger) *Service {
	return &Service{
		users:   users,
		jobs:    jobs,
		indexer: indexer,
		matcher: matcher,
		logger:  logger,
	}
}

var validJobTypes = map[models.JobType]bool{
	models.JobFullTime:   true,
	models.JobPartTime:   true,
	models.JobContract:   true,
	models.JobInternship: true,
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Job, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	company, err := s.users.FindByID(ctx, req.CompanyID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("user", req.CompanyID)
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("find company", err)
	}
	if company.Role != models.RoleCompany {
		return nil, apperrors.NewValidationError("only companies can create jobs", "role: "+string(company.Role))
	}

	job := models.NewJob(req.CompanyID, req.Title, req.Description, req.Type)
	job.Requirements = req.Requirements
	job.Skills = req.Skills
	job.Location = req.Location
	job.SalaryMin = req.SalaryMin
	job.SalaryMax = req.SalaryMax

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.NewPersistenceError("create job", err)
	}

	if err := s.indexer.Index(ctx, job); err != nil {
		s.logger.Warn("Job created but not indexed",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}

	s.matcher.MatchJob(job)

	s.logger.Info("Job created",
		zap.String("job_id", job.ID),
		zap.String("company_id", job.CompanyID),
		zap.String("title", job.Title))
	return job, nil
}

func validateRequest(req CreateRequest) error {
	switch {
	case req.CompanyID == "":
		return apperrors.NewValidationError("companyId is required", "")
	case req.Title == "":
		return apperrors.NewValidationError("title is required", "")
	case !validJobTypes[req.Type]:
		return apperrors.NewValidationError("invalid job type", "type: "+string(req.Type))
	case req.SalaryMin > req.SalaryMax && req.SalaryMax != 0:
		return apperrors.NewValidationError("salary range is inverted", "")
	}
	return nil
}
