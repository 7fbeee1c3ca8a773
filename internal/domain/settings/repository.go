package settings

import (
	"context"
	"time"
)

// Repository defines data access methods for per-company settings.
type Repository interface {
	// GetByCompanyID returns the company's settings row, or
	// ErrSettingsNotFound if it was never created
	GetByCompanyID(ctx context.Context, companyID string) (AttendanceSettings, error)

	// Create inserts a settings row
	Create(ctx context.Context, s AttendanceSettings) (AttendanceSettings, error)

	// Update replaces the mutable fields of the company's settings row
	Update(ctx context.Context, s AttendanceSettings) error
}

// BankHolidayRepository defines data access for the working-day calendar.
type BankHolidayRepository interface {
	// ListByCompany returns holidays with dates in [from, to], ascending
	ListByCompany(ctx context.Context, companyID string, from, to time.Time) ([]BankHoliday, error)

	Create(ctx context.Context, h BankHoliday) (BankHoliday, error)

	Delete(ctx context.Context, id string, companyID string) error
}
