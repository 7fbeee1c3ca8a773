package event

import (
	"time"
)

// Type is the kind of geofence transition an event records.
type Type string

const (
	TypeEnter Type = "enter"
	TypeExit  Type = "exit"
)

// TriggerMethod records how the event was produced.
type TriggerMethod string

const (
	TriggerAutomatic TriggerMethod = "automatic"
	TriggerManual    TriggerMethod = "manual"
)

// DuplicateWindow is the tolerance around an external timestamp within which
// an existing internal event for the same employee/site/type counts as the
// same physical event.
const DuplicateWindow = time.Second

// AttendanceEvent is an immutable attendance fact. After creation only
// IsNoise and Processed are ever mutated; rows are soft-deleted, never
// removed.
type AttendanceEvent struct {
	ID                  string
	CompanyID           string
	EmployeeID          string
	SiteID              string
	EventType           Type
	Timestamp           time.Time // UTC
	Latitude            *float64
	Longitude           *float64
	TriggerMethod       TriggerMethod
	SourceDeviceID      *int64
	ExternalEventID     *int64
	IsNoise             bool
	// NoiseDistanceMeters is the distance to the day's first real entry for
	// the same employee and site, recorded whenever both fixes exist, noise
	// or not.
	NoiseDistanceMeters *float64
	Processed           bool
	DeletedAt           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasCoordinates reports whether the event carries a GPS fix.
func (e AttendanceEvent) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// Date returns the UTC calendar date the event belongs to.
func (e AttendanceEvent) Date() time.Time {
	return e.Timestamp.UTC().Truncate(24 * time.Hour)
}
