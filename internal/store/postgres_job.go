package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"clipers-engine/internal/models"
)

type PostgresJobStore struct {
	db *sql.DB
}

func NewPostgresJobStore(db *sql.DB) *PostgresJobStore {
	return &PostgresJobStore{db: db}
}

func (s *PostgresJobStore) FindByID(ctx context.Context, id string) (*models.Job, error) {
	query := `
		SELECT id, company_id, title, description, requirements,
		       skills, COALESCE(location, ''), type, salary_min, salary_max, active, created_at
		FROM jobs
		WHERE id = $1`

	var j models.Job
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.Description, pq.Array(&j.Requirements),
		pq.Array(&j.Skills), &j.Location, &j.Type, &j.SalaryMin, &j.SalaryMax,
		&j.Active, &j.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *PostgresJobStore) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, company_id, title, description, requirements, skills,
		                  location, type, salary_min, salary_max, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		job.ID, job.CompanyID, job.Title, job.Description, pq.Array(job.Requirements),
		pq.Array(job.Skills), job.Location, job.Type, job.SalaryMin, job.SalaryMax,
		job.Active, job.CreatedAt,
	)
	return err
}
