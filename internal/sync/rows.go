// Package sync keeps the local task store and the remote datastore
// convergent. The remote side speaks snake_case rows with ISO-8601
// timestamps and UUID category foreign keys; the local side speaks domain
// structs with epoch-millisecond instants. Translation between the two is
// the codec's job; reconciliation is built entirely on idempotent upserts
// so partial failures self-heal on the next pass.
package sync

// TaskRow is the remote row shape of a task. Field names and nullability
// mirror the tasks table exactly; childIds intentionally has no column (it
// is derived from parent_id after every pull). Nil pointers map to SQL NULL
// on the remote side, so an unset value is never conflated with a zero.
type TaskRow struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Priority           string  `json:"priority"`
	EnergyLevel        string  `json:"energy_level"`
	CategoryID         *string `json:"category_id"`
	Deadline           *string `json:"deadline"`
	IsRecurring        bool    `json:"is_recurring"`
	RecurringFrequency *string `json:"recurring_frequency"`
	EstimatedMinutes   *int    `json:"estimated_minutes"`
	ActualMinutes      *int    `json:"actual_minutes"`
	ParentID           *string `json:"parent_id"`
	Depth              int     `json:"depth"`
	CreatedHour        int     `json:"created_hour"`
	IsCompleted        bool    `json:"is_completed"`
	CompletedAt        *string `json:"completed_at"`
	IsArchived         bool    `json:"is_archived"`
	ArchivedAt         *string `json:"archived_at"`
	OverdueStartDate   *string `json:"overdue_start_date"`
	RevivedAt          *string `json:"revived_at"`
	StartedAt          *string `json:"started_at"`
	DeferCount         int     `json:"defer_count"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

// CategoryRow is the remote row shape of a category.
type CategoryRow struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
	IsDefault bool   `json:"is_default"`
}

// InboxRow is the remote row shape of a quick-capture inbox item.
type InboxRow struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	RawText    string `json:"raw_text"`
	CapturedAt string `json:"captured_at"`
}
