// Package audit materializes the merged event stream into a queryable trail.
// Entries are keyed by their position in the log, so redelivered events
// collapse into a single row and the trail stays idempotent.
package audit

import (
	"context"
	"time"
)

// Entry is one materialized patient event.
type Entry struct {
	Topic       string
	Partition   int32
	Offset      int64
	EventType   string
	EventTime   time.Time
	PatientID   int64
	PatientName string
	TriggeredBy string
}

// Store is append-only. Append must tolerate duplicate log positions.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByPatient(ctx context.Context, patientID int64) ([]Entry, error)
}
