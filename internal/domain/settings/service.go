package settings

import (
	"context"
)

type SettingsService interface {
	// GetOrCreate returns the company's settings, creating the row with
	// defaults on first access
	GetOrCreate(ctx context.Context, companyID string) (AttendanceSettings, error)

	// Update applies the provided fields and returns the new settings
	Update(ctx context.Context, companyID string, req UpdateSettingsRequest) (AttendanceSettings, error)

	// ListBankHolidays returns the company's holidays for a calendar year
	ListBankHolidays(ctx context.Context, companyID string, year int) ([]BankHoliday, error)

	AddBankHoliday(ctx context.Context, companyID string, req AddBankHolidayRequest) (BankHoliday, error)

	RemoveBankHoliday(ctx context.Context, companyID string, id string) error
}
