package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clipers-engine/internal/models"
)

type PostgresProfileStore struct {
	db *sql.DB
}

func NewPostgresProfileStore(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

func (s *PostgresProfileStore) FindByUserID(ctx context.Context, userID string) (*models.ATSProfile, error) {
	query := `
		SELECT id, user_id, COALESCE(summary, ''), COALESCE(cliper_id, ''), created_at, updated_at
		FROM ats_profiles
		WHERE user_id = $1`

	var p models.ATSProfile
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Summary, &p.CliperID, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadEducation(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.loadExperience(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.loadSkills(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.loadLanguages(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresProfileStore) loadEducation(ctx context.Context, p *models.ATSProfile) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, institution, degree, field FROM profile_education WHERE profile_id = $1`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e models.Education
		if err := rows.Scan(&e.ID, &e.Institution, &e.Degree, &e.Field); err != nil {
			return err
		}
		p.Education = append(p.Education, e)
	}
	return rows.Err()
}

func (s *PostgresProfileStore) loadExperience(ctx context.Context, p *models.ATSProfile) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company, position, start_date, end_date, COALESCE(description, '')
		 FROM profile_experience WHERE profile_id = $1`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e models.Experience
		if err := rows.Scan(&e.ID, &e.Company, &e.Position, &e.StartDate, &e.EndDate, &e.Description); err != nil {
			return err
		}
		p.Experience = append(p.Experience, e)
	}
	return rows.Err()
}

func (s *PostgresProfileStore) loadSkills(ctx context.Context, p *models.ATSProfile) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, level, category FROM profile_skills WHERE profile_id = $1`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Level, &sk.Category); err != nil {
			return err
		}
		p.Skills = append(p.Skills, sk)
	}
	return rows.Err()
}

func (s *PostgresProfileStore) loadLanguages(ctx context.Context, p *models.ATSProfile) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, level FROM profile_languages WHERE profile_id = $1`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var l models.Language
		if err := rows.Scan(&l.ID, &l.Name, &l.Level); err != nil {
			return err
		}
		p.Languages = append(p.Languages, l)
	}
	return rows.Err()
}

// Save upserts the profile row and replaces all four collections inside a
// single transaction, so a concurrent reader never sees a half-written profile.
func (s *PostgresProfileStore) Save(ctx context.Context, profile *models.ATSProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Two writers racing past the unique check arrive with different ids; the
	// row that survives the conflict is canonical, so the children must hang
	// off its id, not the loser's.
	var profileID string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO ats_profiles (id, user_id, summary, cliper_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET summary = EXCLUDED.summary, cliper_id = EXCLUDED.cliper_id, updated_at = EXCLUDED.updated_at
		RETURNING id`,
		profile.ID, profile.UserID, profile.Summary, profile.CliperID,
		profile.CreatedAt, profile.UpdatedAt,
	).Scan(&profileID)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	profile.ID = profileID

	for _, table := range []string{"profile_education", "profile_experience", "profile_skills", "profile_languages"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE profile_id = $1`, profile.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, e := range profile.Education {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_education (id, profile_id, institution, degree, field)
			VALUES ($1, $2, $3, $4, $5)`,
			e.ID, profile.ID, e.Institution, e.Degree, e.Field,
		)
		if err != nil {
			return fmt.Errorf("insert education: %w", err)
		}
	}

	for _, e := range profile.Experience {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_experience (id, profile_id, company, position, start_date, end_date, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, profile.ID, e.Company, e.Position, e.StartDate, e.EndDate, e.Description,
		)
		if err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}
	}

	for _, sk := range profile.Skills {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_skills (id, profile_id, name, level, category)
			VALUES ($1, $2, $3, $4, $5)`,
			sk.ID, profile.ID, sk.Name, sk.Level, sk.Category,
		)
		if err != nil {
			return fmt.Errorf("insert skill: %w", err)
		}
	}

	for _, l := range profile.Languages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profile_languages (id, profile_id, name, level)
			VALUES ($1, $2, $3, $4)`,
			l.ID, profile.ID, l.Name, l.Level,
		)
		if err != nil {
			return fmt.Errorf("insert language: %w", err)
		}
	}

	return tx.Commit()
}
