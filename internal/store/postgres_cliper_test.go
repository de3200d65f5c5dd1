package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipers-engine/internal/models"
)

func TestCliperStore_FindByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "title", "description", "video_url", "duration",
		"status", "transcription", "skills", "created_at", "updated_at",
	}).AddRow(
		"cliper-1", "user-1", "My pitch", "intro", "https://cdn/videos/cliper-1.mp4",
		58, "DONE", "I build backend systems", pq.Array([]string{"Go", "PostgreSQL"}), now, now,
	)

	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs("user-1").
		WillReturnRows(rows)

	s := NewPostgresCliperStore(db)
	c, err := s.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "cliper-1", c.ID)
	assert.Equal(t, models.CliperDone, c.Status)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, c.Skills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCliperStore_FindByUserID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := NewPostgresCliperStore(db)
	_, err = s.FindByUserID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCliperStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := models.NewCliper("user-1", "My pitch", "intro", "https://cdn/videos/x.mp4", 45)

	mock.ExpectExec("INSERT INTO clipers").
		WithArgs(c.ID, c.UserID, c.Title, c.Description, c.VideoURL, c.Duration,
			c.Status, c.Transcription, pq.Array(c.Skills), c.CreatedAt, c.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresCliperStore(db)
	require.NoError(t, s.Create(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCliperStore_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := models.NewCliper("user-1", "t", "d", "u", 30)

	mock.ExpectExec("UPDATE clipers").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewPostgresCliperStore(db)
	assert.ErrorIs(t, s.Update(context.Background(), c), ErrNotFound)
}

func TestCliperStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM clipers").
		WithArgs("cliper-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewPostgresCliperStore(db)
	require.NoError(t, s.Delete(context.Background(), "cliper-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
