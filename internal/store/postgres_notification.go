package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"clipers-engine/internal/models"
)

type PostgresNotificationStore struct {
	db *sql.DB
}

func NewPostgresNotificationStore(db *sql.DB) *PostgresNotificationStore {
	return &PostgresNotificationStore{db: db}
}

func (s *PostgresNotificationStore) Insert(ctx context.Context, event *models.NotificationEvent) error {
	query := `
		INSERT INTO notifications (id, user_id, type, actor_id, entity_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)`

	_, err := s.db.ExecContext(ctx, query,
		uuid.New().String(), event.UserID, event.Type, event.ActorID,
		event.EntityID, event.Message, event.Timestamp,
	)
	return err
}
