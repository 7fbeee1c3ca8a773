package site

import (
	"context"
)

// Repository defines the read-only site lookups the pipeline needs.
type Repository interface {
	// GetByID retrieves a site with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Site, error)

	// ListActive returns active, non-deleted sites for a company
	ListActive(ctx context.Context, companyID string) ([]Site, error)

	// MapByExternalCode returns active, non-deleted sites keyed by their
	// external site code; sites without one are omitted
	MapByExternalCode(ctx context.Context, companyID string) (map[string]Site, error)
}
