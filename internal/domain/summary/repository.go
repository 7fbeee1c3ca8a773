package summary

import (
	"context"
	"time"
)

// Repository defines data access methods for attendance summaries.
type Repository interface {
	// Upsert creates or replaces the summary keyed by
	// (company, employee, site, date)
	Upsert(ctx context.Context, s AttendanceSummary) (AttendanceSummary, error)

	// GetByKey retrieves the summary for one (employee, site, date)
	GetByKey(ctx context.Context, companyID, employeeID, siteID string, date time.Time) (AttendanceSummary, error)

	// ListByDate retrieves all summaries for a company on a UTC date
	ListByDate(ctx context.Context, companyID string, date time.Time) ([]AttendanceSummary, error)
}
