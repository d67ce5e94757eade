package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/nathanfields/ebb/internal/db"
	"github.com/nathanfields/ebb/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, user_id, title, description, priority, energy_level, category_id,
		deadline, estimated_minutes, actual_minutes, parent_id, depth,
		is_recurring, recurring_frequency, created_hour,
		is_completed, completed_at, is_archived, archived_at,
		overdue_start_date, revived_at, started_at, defer_count, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database. It accepts a
// db.DBTX so callers can scope it to a transaction via the unit of work.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(dbtx db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: dbtx}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, taskArgs(t)...)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanTask(row)
}

func (r *SQLiteTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE category_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by category: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE parent_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET user_id = ?, title = ?, description = ?, priority = ?, energy_level = ?,
		category_id = ?, deadline = ?, estimated_minutes = ?, actual_minutes = ?, parent_id = ?, depth = ?,
		is_recurring = ?, recurring_frequency = ?, created_hour = ?,
		is_completed = ?, completed_at = ?, is_archived = ?, archived_at = ?,
		overdue_start_date = ?, revived_at = ?, started_at = ?, defer_count = ?, created_at = ?, updated_at = ?
		WHERE id = ?`
	args := append(taskArgs(t)[1:], t.ID)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	query := `DELETE FROM tasks WHERE id IN (` + placeholders + `)`
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting tasks: %w", err)
	}
	return nil
}

// ReplaceAll swaps the entire task table for the given set. Parents are
// inserted before children to satisfy the self-referencing foreign key.
// Callers should run this inside a transaction.
func (r *SQLiteTaskRepo) ReplaceAll(ctx context.Context, tasks []*domain.Task) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	ordered := make([]*domain.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Depth < ordered[j].Depth })
	for _, t := range ordered {
		if err := r.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// taskArgs flattens a task into the insert argument list, in taskColumns order.
func taskArgs(t *domain.Task) []interface{} {
	var freq interface{}
	if t.RecurringFrequency != nil {
		freq = string(*t.RecurringFrequency)
	}
	return []interface{}{
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		string(t.Priority),
		string(t.EnergyLevel),
		t.CategoryID,
		nullableTimeToMillis(t.Deadline),
		nullableIntToValue(t.EstimatedMinutes),
		nullableIntToValue(t.ActualMinutes),
		nullableStringToValue(t.ParentID),
		t.Depth,
		boolToInt(t.IsRecurring),
		freq,
		t.CreatedHour,
		boolToInt(t.IsCompleted),
		nullableTimeToMillis(t.CompletedAt),
		boolToInt(t.IsArchived),
		nullableTimeToMillis(t.ArchivedAt),
		nullableTimeToMillis(t.OverdueStartDate),
		nullableTimeToMillis(t.RevivedAt),
		nullableTimeToMillis(t.StartedAt),
		t.DeferCount,
		timeToMillis(t.CreatedAt),
		timeToMillis(t.UpdatedAt),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTask scans a single task from a *sql.Row.
func scanTask(row *sql.Row) (*domain.Task, error) {
	t, err := scanTaskFrom(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

// scanTasks scans multiple tasks from *sql.Rows.
func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTaskFrom(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTaskFrom(s rowScanner) (*domain.Task, error) {
	var t domain.Task
	var priorityStr, energyStr string
	var deadlineMs, completedMs, archivedMs, overdueMs, revivedMs, startedMs sql.NullInt64
	var estimated, actual sql.NullInt64
	var parentID, freqStr sql.NullString
	var recurringInt, completedInt, archivedInt int
	var createdMs, updatedMs int64

	err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &priorityStr, &energyStr, &t.CategoryID,
		&deadlineMs, &estimated, &actual, &parentID, &t.Depth,
		&recurringInt, &freqStr, &t.CreatedHour,
		&completedInt, &completedMs, &archivedInt, &archivedMs,
		&overdueMs, &revivedMs, &startedMs, &t.DeferCount, &createdMs, &updatedMs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Priority = domain.Priority(priorityStr)
	t.EnergyLevel = domain.EnergyLevel(energyStr)
	t.IsRecurring = intToBool(recurringInt)
	t.IsCompleted = intToBool(completedInt)
	t.IsArchived = intToBool(archivedInt)
	t.Deadline = parseNullableMillis(deadlineMs)
	t.CompletedAt = parseNullableMillis(completedMs)
	t.ArchivedAt = parseNullableMillis(archivedMs)
	t.OverdueStartDate = parseNullableMillis(overdueMs)
	t.RevivedAt = parseNullableMillis(revivedMs)
	t.StartedAt = parseNullableMillis(startedMs)
	t.CreatedAt = millisToTime(createdMs)
	t.UpdatedAt = millisToTime(updatedMs)

	if estimated.Valid {
		v := int(estimated.Int64)
		t.EstimatedMinutes = &v
	}
	if actual.Valid {
		v := int(actual.Int64)
		t.ActualMinutes = &v
	}
	if parentID.Valid {
		v := parentID.String
		t.ParentID = &v
	}
	if freqStr.Valid && freqStr.String != "" {
		f := domain.RecurringFrequency(freqStr.String)
		t.RecurringFrequency = &f
	}
	return &t, nil
}
