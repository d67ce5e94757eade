package repository

import (
	"database/sql"
	"time"
)

// Timestamps are stored as epoch milliseconds in UTC.

// timeToMillis converts a time.Time to epoch milliseconds.
func timeToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// millisToTime converts epoch milliseconds back to a UTC time.Time.
func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// parseNullableMillis converts a sql.NullInt64 column into a *time.Time.
// Returns nil if the value is NULL.
func parseNullableMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := millisToTime(v.Int64)
	return &t
}

// nullableTimeToMillis converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableTimeToMillis(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

// nullableIntToValue converts a *int to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableIntToValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableStringToValue converts a *string to a value suitable for SQLite storage.
func nullableStringToValue(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}
