package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations are executed in order on every open. Statements are written to
// be re-runnable; ALTER TABLE duplicates are tolerated below.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		icon       TEXT NOT NULL DEFAULT 'grid-outline',
		color      TEXT NOT NULL DEFAULT '#3B82F6',
		is_default INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,

	// Timestamps are epoch milliseconds (INTEGER); the sync codec converts
	// to ISO-8601 at the wire boundary.
	`CREATE TABLE IF NOT EXISTS tasks (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL DEFAULT '',
		title               TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		priority            TEXT NOT NULL DEFAULT 'none'
		                    CHECK(priority IN ('high','medium','low','none')),
		energy_level        TEXT NOT NULL DEFAULT 'medium'
		                    CHECK(energy_level IN ('high','medium','low')),
		category_id         TEXT NOT NULL DEFAULT 'overview' REFERENCES categories(id),
		deadline            INTEGER,
		estimated_minutes   INTEGER,
		actual_minutes      INTEGER,
		parent_id           TEXT REFERENCES tasks(id),
		depth               INTEGER NOT NULL DEFAULT 0 CHECK(depth BETWEEN 0 AND 3),
		is_recurring        INTEGER NOT NULL DEFAULT 0,
		recurring_frequency TEXT
		                    CHECK(recurring_frequency IN ('daily','weekly','biweekly','monthly')),
		created_hour        INTEGER NOT NULL DEFAULT 0 CHECK(created_hour BETWEEN 0 AND 23),
		is_completed        INTEGER NOT NULL DEFAULT 0,
		completed_at        INTEGER,
		is_archived         INTEGER NOT NULL DEFAULT 0,
		archived_at         INTEGER,
		overdue_start_date  INTEGER,
		revived_at          INTEGER,
		started_at          INTEGER,
		defer_count         INTEGER NOT NULL DEFAULT 0,
		created_at          INTEGER NOT NULL,
		updated_at          INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS inbox_tasks (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL DEFAULT '',
		raw_text    TEXT NOT NULL,
		captured_at INTEGER NOT NULL
	)`,

	// Key/value cursors for the sync process (incremental-pull watermark).
	`CREATE TABLE IF NOT EXISTS sync_state (
		key   TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_archived ON tasks(is_archived)`,
	`CREATE INDEX IF NOT EXISTS idx_inbox_captured ON inbox_tasks(captured_at)`,
}

// Migrate runs all schema migrations and seeds the default category.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := seedDefaultCategory(db); err != nil {
		return fmt.Errorf("seeding default category: %w", err)
	}
	return nil
}

// seedDefaultCategory guarantees the built-in overview category exists with
// its fixed id at rank 0. It must be present before any remote round trip.
func seedDefaultCategory(db *sql.DB) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO categories (id, name, icon, color, is_default, sort_order)
		VALUES ('overview', 'Overview', 'grid-outline', '#3B82F6', 1, 0)`)
	return err
}
