package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"clipers-engine/internal/models"
)

type PostgresCliperStore struct {
	db *sql.DB
}

func NewPostgresCliperStore(db *sql.DB) *PostgresCliperStore {
	return &PostgresCliperStore{db: db}
}

func (s *PostgresCliperStore) FindByID(ctx context.Context, id string) (*models.Cliper, error) {
	query := `
		SELECT id, user_id, title, description, video_url, duration, status,
		       COALESCE(transcription, ''), skills, created_at, updated_at
		FROM clipers
		WHERE id = $1`

	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresCliperStore) FindByUserID(ctx context.Context, userID string) (*models.Cliper, error) {
	query := `
		SELECT id, user_id, title, description, video_url, duration, status,
		       COALESCE(transcription, ''), skills, created_at, updated_at
		FROM clipers
		WHERE user_id = $1`

	return s.scanOne(s.db.QueryRowContext(ctx, query, userID))
}

func (s *PostgresCliperStore) scanOne(row *sql.Row) (*models.Cliper, error) {
	var c models.Cliper
	err := row.Scan(
		&c.ID, &c.UserID, &c.Title, &c.Description, &c.VideoURL, &c.Duration,
		&c.Status, &c.Transcription, pq.Array(&c.Skills), &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresCliperStore) Create(ctx context.Context, cliper *models.Cliper) error {
	query := `
		INSERT INTO clipers (id, user_id, title, description, video_url, duration,
		                     status, transcription, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(ctx, query,
		cliper.ID, cliper.UserID, cliper.Title, cliper.Description, cliper.VideoURL,
		cliper.Duration, cliper.Status, cliper.Transcription, pq.Array(cliper.Skills),
		cliper.CreatedAt, cliper.UpdatedAt,
	)
	return err
}

func (s *PostgresCliperStore) Update(ctx context.Context, cliper *models.Cliper) error {
	query := `
		UPDATE clipers
		SET title = $2, description = $3, video_url = $4, duration = $5,
		    status = $6, transcription = $7, skills = $8, updated_at = $9
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		cliper.ID, cliper.Title, cliper.Description, cliper.VideoURL, cliper.Duration,
		cliper.Status, cliper.Transcription, pq.Array(cliper.Skills), cliper.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresCliperStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clipers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
