package repository

import (
	"context"
	"fmt"

	"github.com/nathanfields/ebb/internal/db"
	"github.com/nathanfields/ebb/internal/domain"
)

// SQLiteInboxRepo implements InboxRepo using a SQLite database.
type SQLiteInboxRepo struct {
	db db.DBTX
}

// NewSQLiteInboxRepo creates a new SQLiteInboxRepo.
func NewSQLiteInboxRepo(dbtx db.DBTX) *SQLiteInboxRepo {
	return &SQLiteInboxRepo{db: dbtx}
}

func (r *SQLiteInboxRepo) Create(ctx context.Context, item *domain.InboxTask) error {
	query := `INSERT INTO inbox_tasks (id, user_id, raw_text, captured_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.RawText, timeToMillis(item.CapturedAt))
	if err != nil {
		return fmt.Errorf("inserting inbox task: %w", err)
	}
	return nil
}

func (r *SQLiteInboxRepo) List(ctx context.Context) ([]*domain.InboxTask, error) {
	query := `SELECT id, user_id, raw_text, captured_at FROM inbox_tasks ORDER BY captured_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing inbox tasks: %w", err)
	}
	defer rows.Close()

	var items []*domain.InboxTask
	for rows.Next() {
		var item domain.InboxTask
		var capturedMs int64
		if err := rows.Scan(&item.ID, &item.UserID, &item.RawText, &capturedMs); err != nil {
			return nil, fmt.Errorf("scanning inbox task: %w", err)
		}
		item.CapturedAt = millisToTime(capturedMs)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating inbox tasks: %w", err)
	}
	return items, nil
}

func (r *SQLiteInboxRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM inbox_tasks WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting inbox task: %w", err)
	}
	return nil
}
