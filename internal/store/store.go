package store

import (
	"context"
	"errors"

	"clipers-engine/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindCandidatesWithProfile returns every candidate user that has an ATS
	// profile, which is the population the matching engine scores.
	FindCandidatesWithProfile(ctx context.Context) ([]*models.User, error)
}

type CliperStore interface {
	FindByID(ctx context.Context, id string) (*models.Cliper, error)
	FindByUserID(ctx context.Context, userID string) (*models.Cliper, error)
	Create(ctx context.Context, cliper *models.Cliper) error
	Update(ctx context.Context, cliper *models.Cliper) error
	Delete(ctx context.Context, id string) error
}

type ProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.ATSProfile, error)
	// Save persists the profile and all of its collections atomically,
	// replacing whatever collections were stored before.
	Save(ctx context.Context, profile *models.ATSProfile) error
}

type JobStore interface {
	FindByID(ctx context.Context, id string) (*models.Job, error)
	Create(ctx context.Context, job *models.Job) error
}

type MatchStore interface {
	Create(ctx context.Context, match *models.JobMatch) error
	FindByJobID(ctx context.Context, jobID string) ([]*models.JobMatch, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, event *models.NotificationEvent) error
}
