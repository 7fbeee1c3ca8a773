package device

import (
	"context"
)

// Repository defines data access methods for the device status cache.
type Repository interface {
	// UpsertBatch overwrites cache rows keyed by external device id
	UpsertBatch(ctx context.Context, statuses []DeviceStatus) error

	// List returns all cached device statuses
	List(ctx context.Context) ([]DeviceStatus, error)
}
