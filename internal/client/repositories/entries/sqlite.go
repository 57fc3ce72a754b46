package entries

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avolkov/tracklight/internal/client/models"
	"github.com/avolkov/tracklight/internal/dbx"
)

// retained is how many completed entries the cache keeps.
const retained = 50

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, entry *models.TimeEntry) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `INSERT OR REPLACE INTO time_entries
			(id, project_id, project_name, description, started_at, ended_at, duration_seconds)
			VALUES (?, ?, ?, ?, ?, ?, ?)`

		var endedAt any
		if entry.EndTime != nil {
			endedAt = entry.EndTime.UTC().Format(time.RFC3339)
		}

		_, err := tx.ExecContext(ctx, query,
			entry.ID, entry.ProjectID, entry.ProjectName, entry.Description,
			entry.StartTime.UTC().Format(time.RFC3339), endedAt, entry.DurationSeconds)
		if err != nil {
			return fmt.Errorf("failed to insert time entry: %w", err)
		}

		prune := `DELETE FROM time_entries WHERE id NOT IN
			(SELECT id FROM time_entries ORDER BY started_at DESC LIMIT ?)`
		if _, err := tx.ExecContext(ctx, prune, retained); err != nil {
			return fmt.Errorf("failed to prune time entries: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]models.TimeEntry, error) {
	query := `SELECT id, project_id, project_name, description, started_at, ended_at, duration_seconds
		FROM time_entries ORDER BY started_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select time entries: %w", err)
	}
	defer rows.Close()

	var result []models.TimeEntry
	for rows.Next() {
		var item models.TimeEntry
		var startedAt string
		var endedAt sql.NullString

		err := rows.Scan(&item.ID, &item.ProjectID, &item.ProjectName, &item.Description,
			&startedAt, &endedAt, &item.DurationSeconds)
		if err != nil {
			return nil, err
		}

		if item.StartTime, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("bad started_at for entry %s: %w", item.ID, err)
		}
		if endedAt.Valid {
			t, err := time.Parse(time.RFC3339, endedAt.String)
			if err != nil {
				return nil, fmt.Errorf("bad ended_at for entry %s: %w", item.ID, err)
			}
			item.EndTime = &t
		}

		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_entries`); err != nil {
		return fmt.Errorf("failed to clear time entries: %w", err)
	}
	return nil
}
