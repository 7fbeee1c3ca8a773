package synclog

import (
	"context"
	"time"
)

// Repository defines data access methods for sync run logs.
type Repository interface {
	// Create opens a new run row; persisted immediately so a crash mid-run
	// is visible in the audit trail
	Create(ctx context.Context, log GeofenceSyncLog) (GeofenceSyncLog, error)

	// Update writes final counts, cursor and completion state back to a row
	Update(ctx context.Context, log GeofenceSyncLog) error

	// LastSuccessful returns the most recent completed, error-free run for
	// the company, or nil if there has never been one
	LastSuccessful(ctx context.Context, companyID string) (*GeofenceSyncLog, error)

	// ListRecent returns the most recent runs, newest first
	ListRecent(ctx context.Context, companyID string, limit int) ([]GeofenceSyncLog, error)

	// CountsSince aggregates run outcomes started after the given time
	CountsSince(ctx context.Context, companyID string, since time.Time) (Counts, error)
}
