// Package entries caches completed time entries locally so the most recent
// work still renders when the server is unreachable. The cache is strictly
// derived data: the server stays authoritative and the cache is wiped on
// logout.
package entries

import (
	"context"

	"github.com/avolkov/tracklight/internal/client/models"
)

type Repository interface {
	// Insert stores a completed entry, replacing any previous copy, and
	// prunes the cache to its retention limit.
	Insert(ctx context.Context, entry *models.TimeEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]models.TimeEntry, error)

	// Clear wipes the cache.
	Clear(ctx context.Context) error
}
