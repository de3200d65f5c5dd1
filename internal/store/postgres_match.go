package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"clipers-engine/internal/models"
)

type PostgresMatchStore struct {
	db *sql.DB
}

func NewPostgresMatchStore(db *sql.DB) *PostgresMatchStore {
	return &PostgresMatchStore{db: db}
}

func (s *PostgresMatchStore) Create(ctx context.Context, match *models.JobMatch) error {
	query := `
		INSERT INTO job_matches (id, job_id, user_id, score, explanation, matched_skills, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		match.ID, match.JobID, match.UserID, match.Score, match.Explanation,
		pq.Array(match.MatchedSkills), match.CreatedAt,
	)
	return err
}

func (s *PostgresMatchStore) FindByJobID(ctx context.Context, jobID string) ([]*models.JobMatch, error) {
	query := `
		SELECT id, job_id, user_id, score, COALESCE(explanation, ''), matched_skills, created_at
		FROM job_matches
		WHERE job_id = $1
		ORDER BY score DESC`

	rows, err := s.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*models.JobMatch
	for rows.Next() {
		var m models.JobMatch
		if err := rows.Scan(&m.ID, &m.JobID, &m.UserID, &m.Score, &m.Explanation,
			pq.Array(&m.MatchedSkills), &m.CreatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}
