package employee

import (
	"context"
)

// Repository defines the read-only employee lookups the pipeline needs.
type Repository interface {
	// GetByID retrieves an employee with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// MapByDeviceID returns active, non-deleted employees keyed by their
	// external device identifier; employees without one are omitted
	MapByDeviceID(ctx context.Context, companyID string) (map[int64]Employee, error)
}
