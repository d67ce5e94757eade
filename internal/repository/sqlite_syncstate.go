package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nathanfields/ebb/internal/db"
)

// watermarkKey is the sync_state row holding the incremental-pull cursor.
const watermarkKey = "pull_watermark"

// SQLiteSyncStateRepo implements SyncStateRepo using a SQLite database.
type SQLiteSyncStateRepo struct {
	db db.DBTX
}

// NewSQLiteSyncStateRepo creates a new SQLiteSyncStateRepo.
func NewSQLiteSyncStateRepo(dbtx db.DBTX) *SQLiteSyncStateRepo {
	return &SQLiteSyncStateRepo{db: dbtx}
}

// Watermark returns the stored incremental-pull cursor, or nil when no full
// pull has completed yet.
func (r *SQLiteSyncStateRepo) Watermark(ctx context.Context) (*time.Time, error) {
	query := `SELECT value FROM sync_state WHERE key = ?`
	var ms int64
	err := r.db.QueryRowContext(ctx, query, watermarkKey).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading sync watermark: %w", err)
	}
	t := millisToTime(ms)
	return &t, nil
}

func (r *SQLiteSyncStateRepo) SetWatermark(ctx context.Context, t time.Time) error {
	query := `INSERT INTO sync_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, watermarkKey, timeToMillis(t)); err != nil {
		return fmt.Errorf("writing sync watermark: %w", err)
	}
	return nil
}

func (r *SQLiteSyncStateRepo) ClearWatermark(ctx context.Context) error {
	query := `DELETE FROM sync_state WHERE key = ?`
	if _, err := r.db.ExecContext(ctx, query, watermarkKey); err != nil {
		return fmt.Errorf("clearing sync watermark: %w", err)
	}
	return nil
}
