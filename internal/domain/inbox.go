package domain

import "time"

// InboxTask is a lightweight unprocessed capture. A separate parsing step
// turns it into a Task; the lifecycle engine never touches it.
type InboxTask struct {
	ID         string
	UserID     string
	RawText    string
	CapturedAt time.Time
}
