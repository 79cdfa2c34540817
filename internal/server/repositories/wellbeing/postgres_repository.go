package wellbeing

import (
	"context"
	"fmt"

	"github.com/kairo-health/kairo-server/internal/dbx"
	"github.com/kairo-health/kairo-server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateMood(ctx context.Context, entry *models.MoodEntry) error {
	query :=
		`INSERT INTO mood_entries (user_id, score, note)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, entry.UserID, entry.Score, entry.Note).
		Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListMoods(ctx context.Context, userID string) ([]*models.MoodEntry, error) {
	query :=
		`SELECT id, user_id, score, note, created_at FROM mood_entries
		 WHERE user_id = $1
		 ORDER BY id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []*models.MoodEntry
	for rows.Next() {
		e := &models.MoodEntry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Score, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

func (r *PostgresRepository) CreateActivity(ctx context.Context, entry *models.ActivityEntry) error {
	query :=
		`INSERT INTO activity_entries (user_id, activity_type, name, duration_minutes, description)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Type, entry.Name, entry.DurationMinutes, entry.Description).
		Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListActivities(ctx context.Context, userID string) ([]*models.ActivityEntry, error) {
	query :=
		`SELECT id, user_id, activity_type, name, duration_minutes, description, created_at FROM activity_entries
		 WHERE user_id = $1
		 ORDER BY id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActivityEntry
	for rows.Next() {
		e := &models.ActivityEntry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.Name, &e.DurationMinutes, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}
