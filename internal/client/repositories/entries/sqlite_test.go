package entries

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/avolkov/tracklight/internal/client/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE time_entries (
  id               TEXT PRIMARY KEY,
  project_id       TEXT NOT NULL,
  project_name     TEXT NOT NULL DEFAULT '',
  description      TEXT NOT NULL DEFAULT '',
  started_at       TEXT NOT NULL,
  ended_at         TEXT,
  duration_seconds INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func entryAt(id string, start time.Time) *models.TimeEntry {
	end := start.Add(time.Minute)
	return &models.TimeEntry{ID: id, ProjectID: "p1", StartTime: start, EndTime: &end, DurationSeconds: 60}
}

func TestInsertAndRecent_RoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, entryAt("t1", start)))
	require.NoError(t, repo.Insert(ctx, entryAt("t2", start.Add(time.Hour))))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "t2", got[0].ID, "newest first")
	require.Equal(t, "t1", got[1].ID)
	require.True(t, got[1].StartTime.Equal(start))
	require.NotNil(t, got[1].EndTime)
	require.Equal(t, 60, got[1].DurationSeconds)
}

func TestInsert_ReplacesExistingEntry(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	start := time.Now().UTC().Truncate(time.Second)
	e := entryAt("t1", start)
	require.NoError(t, repo.Insert(ctx, e))

	e.DurationSeconds = 120
	require.NoError(t, repo.Insert(ctx, e))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 120, got[0].DurationSeconds)
}

func TestInsert_PrunesToRetentionLimit(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < retained+10; i++ {
		id := fmt.Sprintf("t%03d", i)
		require.NoError(t, repo.Insert(ctx, entryAt(id, base.Add(time.Duration(i)*time.Hour))))
	}

	got, err := repo.Recent(ctx, retained*2)
	require.NoError(t, err)
	require.Len(t, got, retained)
	require.Equal(t, fmt.Sprintf("t%03d", retained+9), got[0].ID, "newest entries survive pruning")
}

func TestClear_EmptiesCache(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, entryAt("t1", time.Now().UTC())))
	require.NoError(t, repo.Clear(ctx))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRecent_NilEndTime(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	e := entryAt("t1", time.Now().UTC().Truncate(time.Second))
	e.EndTime = nil
	require.NoError(t, repo.Insert(ctx, e))

	got, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Nil(t, got[0].EndTime)
}
