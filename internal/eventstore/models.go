package eventstore

import (
	"time"
)

// GeofenceEvent mirrors one row of the external geofence_events table.
// Coordinates are converted from the store's floating-point representation
// exactly once, here at the adapter boundary.
type GeofenceEvent struct {
	ID            int64
	DeviceID      int64 // user_id column: the device identifier
	SiteCode      string
	EventType     string // "enter" | "exit"
	Timestamp     time.Time
	Latitude      *float64
	Longitude     *float64
	TriggerMethod string // "automatic" | "manual"
}

// Device mirrors one row of the external devices table.
type Device struct {
	ID                 int64
	PlatformIdentifier string
	Platform           *string
	Model              *string
	Manufacturer       *string
	OSVersion          *string
	DeviceType         *string
	RegisteredAt       *time.Time
	LastSeenAt         *time.Time
	IsActive           bool
	LastLatitude       *float64
	LastLongitude      *float64
	LastAccuracy       *float64
	LastBatteryLevel   *int
}
