package store

import (
	"context"
	"database/sql"
	"errors"

	"clipers-engine/internal/models"
)

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, COALESCE(phone, ''), first_name, last_name, role
		FROM users
		WHERE id = $1`

	var u models.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Phone, &u.FirstName, &u.LastName, &u.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) FindCandidatesWithProfile(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT u.id, u.email, COALESCE(u.phone, ''), u.first_name, u.last_name, u.role
		FROM users u
		JOIN ats_profiles p ON p.user_id = u.id
		WHERE u.role = $1`

	rows, err := s.db.QueryContext(ctx, query, models.RoleCandidate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Phone, &u.FirstName, &u.LastName, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
