package sync

import (
	"fmt"
	"time"

	"github.com/nathanfields/ebb/internal/domain"
)

// wireLayout is the timestamp format sent to the remote side.
const wireLayout = time.RFC3339Nano

// naiveLayout matches timestamps the server emits without a zone offset;
// they are interpreted as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// TaskToRow translates a local task into the remote row shape. The category
// reference is rewritten through the mapper; an unmapped category becomes a
// NULL foreign key (a tolerated mapping gap, resolved by the next category
// push).
func TaskToRow(t *domain.Task, userID string, m *CategoryMap) TaskRow {
	row := TaskRow{
		ID:               t.ID,
		UserID:           userID,
		Title:            t.Title,
		Description:      t.Description,
		Priority:         string(t.Priority),
		EnergyLevel:      string(t.EnergyLevel),
		Deadline:         wireTime(t.Deadline),
		IsRecurring:      t.IsRecurring,
		EstimatedMinutes: cloneIntPtr(t.EstimatedMinutes),
		ActualMinutes:    cloneIntPtr(t.ActualMinutes),
		ParentID:         cloneStrPtr(t.ParentID),
		Depth:            t.Depth,
		CreatedHour:      t.CreatedHour,
		IsCompleted:      t.IsCompleted,
		CompletedAt:      wireTime(t.CompletedAt),
		IsArchived:       t.IsArchived,
		ArchivedAt:       wireTime(t.ArchivedAt),
		OverdueStartDate: wireTime(t.OverdueStartDate),
		RevivedAt:        wireTime(t.RevivedAt),
		StartedAt:        wireTime(t.StartedAt),
		DeferCount:       t.DeferCount,
		CreatedAt:        t.CreatedAt.UTC().Format(wireLayout),
		UpdatedAt:        t.UpdatedAt.UTC().Format(wireLayout),
	}
	if t.RecurringFrequency != nil {
		f := string(*t.RecurringFrequency)
		row.RecurringFrequency = &f
	}
	if t.CategoryID != "" && m != nil {
		if remoteID, ok := m.RemoteID(t.CategoryID); ok {
			row.CategoryID = &remoteID
		}
	}
	return row
}

// RowToTask translates a remote row back into a local task. The remote
// category foreign key is rewritten through the mapper when a name match
// exists; otherwise the remote id is kept verbatim, because the same pull
// delivers that category under its remote id and rewriting the reference
// to the default here would be written back on the next push, destroying
// the assignment remotely. Only a NULL foreign key means default. The
// caller still validates the reference against the pulled category set.
func RowToTask(row TaskRow, m *CategoryMap) (*domain.Task, error) {
	createdAt, err := parseWireTime(row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("task %s created_at: %w", row.ID, err)
	}
	updatedAt, err := parseWireTime(row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("task %s updated_at: %w", row.ID, err)
	}

	t := &domain.Task{
		ID:               row.ID,
		UserID:           row.UserID,
		Title:            row.Title,
		Description:      row.Description,
		Priority:         domain.Priority(row.Priority),
		EnergyLevel:      domain.EnergyLevel(row.EnergyLevel),
		CategoryID:       domain.DefaultCategoryID,
		IsRecurring:      row.IsRecurring,
		EstimatedMinutes: cloneIntPtr(row.EstimatedMinutes),
		ActualMinutes:    cloneIntPtr(row.ActualMinutes),
		ParentID:         cloneStrPtr(row.ParentID),
		Depth:            row.Depth,
		CreatedHour:      row.CreatedHour,
		IsCompleted:      row.IsCompleted,
		IsArchived:       row.IsArchived,
		DeferCount:       row.DeferCount,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
	if row.RecurringFrequency != nil {
		f := domain.RecurringFrequency(*row.RecurringFrequency)
		t.RecurringFrequency = &f
	}
	if row.CategoryID != nil {
		t.CategoryID = *row.CategoryID
		if m != nil {
			if localID, ok := m.LocalID(*row.CategoryID); ok {
				t.CategoryID = localID
			}
		}
	}

	for _, f := range []struct {
		src *string
		dst **time.Time
		col string
	}{
		{row.Deadline, &t.Deadline, "deadline"},
		{row.CompletedAt, &t.CompletedAt, "completed_at"},
		{row.ArchivedAt, &t.ArchivedAt, "archived_at"},
		{row.OverdueStartDate, &t.OverdueStartDate, "overdue_start_date"},
		{row.RevivedAt, &t.RevivedAt, "revived_at"},
		{row.StartedAt, &t.StartedAt, "started_at"},
	} {
		if f.src == nil {
			continue
		}
		parsed, err := parseWireTime(*f.src)
		if err != nil {
			return nil, fmt.Errorf("task %s %s: %w", row.ID, f.col, err)
		}
		*f.dst = &parsed
	}

	return t, nil
}

// CategoryToRow translates a local category into the remote row shape. When
// the mapper already knows the remote counterpart, its id is used so the
// upsert targets the existing row instead of inserting a duplicate.
func CategoryToRow(c *domain.Category, userID string, m *CategoryMap) CategoryRow {
	id := c.ID
	if m != nil {
		if remoteID, ok := m.RemoteID(c.ID); ok {
			id = remoteID
		}
	}
	return CategoryRow{
		ID:        id,
		UserID:    userID,
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		SortOrder: c.Order,
		IsDefault: c.IsDefault,
	}
}

// RowToCategory translates a remote category row into the local shape. The
// mapper rewrites the id back to the local identifier when a mapping exists
// (built-in categories keep their fixed local ids).
func RowToCategory(row CategoryRow, m *CategoryMap) *domain.Category {
	id := row.ID
	if m != nil {
		if localID, ok := m.LocalID(row.ID); ok {
			id = localID
		}
	}
	return &domain.Category{
		ID:        id,
		UserID:    row.UserID,
		Name:      row.Name,
		Icon:      row.Icon,
		Color:     row.Color,
		Order:     row.SortOrder,
		IsDefault: row.IsDefault,
	}
}

// InboxToRow translates a local inbox capture into the remote row shape.
func InboxToRow(i *domain.InboxTask, userID string) InboxRow {
	return InboxRow{
		ID:         i.ID,
		UserID:     userID,
		RawText:    i.RawText,
		CapturedAt: i.CapturedAt.UTC().Format(wireLayout),
	}
}

func wireTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(wireLayout)
	return &s
}

func parseWireTime(s string) (time.Time, error) {
	if t, err := time.Parse(wireLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(naiveLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneStrPtr(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
