package device

import (
	"time"
)

// OnlineWindow is how recently a device must have been seen to count as
// online.
const OnlineWindow = 90 * time.Minute

// DeviceStatus is a denormalized read cache of external device telemetry,
// overwritten in place on every sync cycle. It is never the source of truth
// and is safe to truncate and rebuild.
type DeviceStatus struct {
	ExternalDeviceID   int64
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
	RefreshedAt        time.Time
}

// IsOnline reports whether the device was seen within OnlineWindow of now.
func (d DeviceStatus) IsOnline(now time.Time) bool {
	return d.LastSeenAt != nil && now.Sub(*d.LastSeenAt) <= OnlineWindow
}
