// Package auditlog persists delivery records: one row per notification
// outcome, keyed by submitter email. Records are append-only and never read
// back by the relay itself.
package auditlog

import (
	"context"
	"time"
)

// Record is one delivery status entry.
type Record struct {
	Email  string    `json:"email"`
	Status string    `json:"status"`
	SentAt time.Time `json:"sent_at"`
}

// SentAtMillis returns the timestamp as epoch milliseconds.
func (r Record) SentAtMillis() int64 {
	return r.SentAt.UnixMilli()
}

// Recorder writes delivery records.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
	Type() string
}
