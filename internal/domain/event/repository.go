package event

import (
	"context"
	"time"
)

// Repository defines data access methods for attendance events.
// All methods take companyID to prevent cross-company data access.
type Repository interface {
	// Create persists a single event (direct check-in path)
	Create(ctx context.Context, evt AttendanceEvent) (AttendanceEvent, error)

	// CreateBatch persists a flush of events produced by a sync run
	CreateBatch(ctx context.Context, events []AttendanceEvent) error

	// HasDuplicate reports whether a non-deleted event exists for the same
	// (employee, site, type) with a timestamp within DuplicateWindow of ts
	HasDuplicate(ctx context.Context, companyID, employeeID, siteID string, eventType Type, ts time.Time) (bool, error)

	// FirstEntryOfDay returns the earliest non-noise, non-deleted Enter event
	// for (employee, site) on the given UTC date, or nil if none exists
	FirstEntryOfDay(ctx context.Context, companyID, employeeID, siteID string, date time.Time) (*AttendanceEvent, error)

	// ListForDate returns all non-deleted events for the given UTC date,
	// ordered by timestamp ascending. Aggregation recomputes whole days, so
	// processed events are included.
	ListForDate(ctx context.Context, companyID string, date time.Time) ([]AttendanceEvent, error)

	// MarkProcessed flags events as aggregated into a summary
	MarkProcessed(ctx context.Context, companyID string, ids []string) error
}
