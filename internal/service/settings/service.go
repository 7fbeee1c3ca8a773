package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	settings.Repository
	bankHolidayRepo settings.BankHolidayRepository
}

// GetOrCreate implements settings.SettingsService.
func (s *SettingsServiceImpl) GetOrCreate(ctx context.Context, companyID string) (settings.AttendanceSettings, error) {
	existing, err := s.Repository.GetByCompanyID(ctx, companyID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, settings.ErrSettingsNotFound) {
		return settings.AttendanceSettings{}, err
	}

	created, err := s.Repository.Create(ctx, settings.Defaults(companyID))
	if err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to create default settings: %w", err)
	}
	return created, nil
}

// Update implements settings.SettingsService.
func (s *SettingsServiceImpl) Update(ctx context.Context, companyID string, req settings.UpdateSettingsRequest) (settings.AttendanceSettings, error) {
	if err := req.Validate(); err != nil {
		return settings.AttendanceSettings{}, err
	}

	current, err := s.GetOrCreate(ctx, companyID)
	if err != nil {
		return settings.AttendanceSettings{}, err
	}

	req.Apply(&current)
	if err := s.Repository.Update(ctx, current); err != nil {
		return settings.AttendanceSettings{}, err
	}

	return current, nil
}

// ListBankHolidays implements settings.SettingsService.
func (s *SettingsServiceImpl) ListBankHolidays(ctx context.Context, companyID string, year int) ([]settings.BankHoliday, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return s.bankHolidayRepo.ListByCompany(ctx, companyID, from, to)
}

// AddBankHoliday implements settings.SettingsService.
func (s *SettingsServiceImpl) AddBankHoliday(ctx context.Context, companyID string, req settings.AddBankHolidayRequest) (settings.BankHoliday, error) {
	if err := req.Validate(); err != nil {
		return settings.BankHoliday{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return settings.BankHoliday{}, fmt.Errorf("failed to parse holiday date: %w", err)
	}

	return s.bankHolidayRepo.Create(ctx, settings.BankHoliday{
		CompanyID: companyID,
		Date:      date,
		Name:      req.Name,
	})
}

// RemoveBankHoliday implements settings.SettingsService.
func (s *SettingsServiceImpl) RemoveBankHoliday(ctx context.Context, companyID string, id string) error {
	return s.bankHolidayRepo.Delete(ctx, id, companyID)
}

func NewSettingsService(
	settingsRepo settings.Repository,
	bankHolidayRepo settings.BankHolidayRepository,
) settings.SettingsService {
	return &SettingsServiceImpl{
		Repository:      settingsRepo,
		bankHolidayRepo: bankHolidayRepo,
	}
}
