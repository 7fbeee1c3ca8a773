package settings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/validator"
)

func ptr[T any](v T) *T { return &v }

type fakeSettingsRepo struct {
	byCompany map[string]settings.AttendanceSettings
	creates   int
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{byCompany: make(map[string]settings.AttendanceSettings)}
}

func (f *fakeSettingsRepo) GetByCompanyID(ctx context.Context, companyID string) (settings.AttendanceSettings, error) {
	s, ok := f.byCompany[companyID]
	if !ok {
		return settings.AttendanceSettings{}, settings.ErrSettingsNotFound
	}
	return s, nil
}

func (f *fakeSettingsRepo) Create(ctx context.Context, s settings.AttendanceSettings) (settings.AttendanceSettings, error) {
	s.ID = uuid.NewString()
	f.byCompany[s.CompanyID] = s
	f.creates++
	return s, nil
}

func (f *fakeSettingsRepo) Update(ctx context.Context, s settings.AttendanceSettings) error {
	f.byCompany[s.CompanyID] = s
	return nil
}

type fakeBankHolidayRepo struct {
	holidays []settings.BankHoliday
}

func (f *fakeBankHolidayRepo) ListByCompany(ctx context.Context, companyID string, from, to time.Time) ([]settings.BankHoliday, error) {
	var out []settings.BankHoliday
	for _, h := range f.holidays {
		if h.CompanyID == companyID && !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeBankHolidayRepo) Create(ctx context.Context, h settings.BankHoliday) (settings.BankHoliday, error) {
	h.ID = uuid.NewString()
	f.holidays = append(f.holidays, h)
	return h, nil
}

func (f *fakeBankHolidayRepo) Delete(ctx context.Context, id string, companyID string) error {
	for i, h := range f.holidays {
		if h.ID == id && h.CompanyID == companyID {
			f.holidays = append(f.holidays[:i], f.holidays[i+1:]...)
			return nil
		}
	}
	return settings.ErrBankHolidayNotFound
}

func TestGetOrCreate_CreatesDefaultsOnce(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, &fakeBankHolidayRepo{})

	first, err := svc.GetOrCreate(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, settings.DefaultGeofenceRadiusMeters, first.GeofenceRadiusMeters)
	assert.Equal(t, settings.DefaultNoiseThresholdMeters, first.NoiseThresholdMeters)
	assert.True(t, first.ExpectedHoursPerDay.Equal(settings.Defaults("company-1").ExpectedHoursPerDay))
	assert.True(t, first.NotifyPush)
	assert.False(t, first.IncludeSaturday)

	second, err := svc.GetOrCreate(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.creates)
}

func TestUpdate_AppliesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(repo, &fakeBankHolidayRepo{})

	updated, err := svc.Update(ctx, "company-1", settings.UpdateSettingsRequest{
		GeofenceRadiusMeters: ptr(250),
		IncludeSaturday:      ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, 250, updated.GeofenceRadiusMeters)
	assert.True(t, updated.IncludeSaturday)
	// Untouched fields keep their defaults.
	assert.Equal(t, settings.DefaultNoiseThresholdMeters, updated.NoiseThresholdMeters)
	assert.True(t, updated.NotifyPush)

	stored, err := svc.GetOrCreate(ctx, "company-1")
	require.NoError(t, err)
	assert.Equal(t, 250, stored.GeofenceRadiusMeters)
}

func TestUpdate_RejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(newFakeSettingsRepo(), &fakeBankHolidayRepo{})

	_, err := svc.Update(ctx, "company-1", settings.UpdateSettingsRequest{
		ExpectedHoursPerDay:  ptr(25.0),
		GeofenceRadiusMeters: ptr(-5),
	})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestBankHolidays_AddListRemove(t *testing.T) {
	ctx := context.Background()
	holidayRepo := &fakeBankHolidayRepo{}
	svc := NewSettingsService(newFakeSettingsRepo(), holidayRepo)

	created, err := svc.AddBankHoliday(ctx, "company-1", settings.AddBankHolidayRequest{
		Date: "2026-12-25",
		Name: "Christmas Day",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC), created.Date)

	// The year filter excludes other years.
	_, err = svc.AddBankHoliday(ctx, "company-1", settings.AddBankHolidayRequest{
		Date: "2027-01-01",
		Name: "New Year's Day",
	})
	require.NoError(t, err)

	listed, err := svc.ListBankHolidays(ctx, "company-1", 2026)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Christmas Day", listed[0].Name)

	require.NoError(t, svc.RemoveBankHoliday(ctx, "company-1", created.ID))
	listed, err = svc.ListBankHolidays(ctx, "company-1", 2026)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestAddBankHoliday_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(newFakeSettingsRepo(), &fakeBankHolidayRepo{})

	_, err := svc.AddBankHoliday(ctx, "company-1", settings.AddBankHolidayRequest{
		Date: "25/12/2026",
		Name: "",
	})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestRemoveBankHoliday_UnknownID(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(newFakeSettingsRepo(), &fakeBankHolidayRepo{})

	err := svc.RemoveBankHoliday(ctx, "company-1", uuid.NewString())
	assert.ErrorIs(t, err, settings.ErrBankHolidayNotFound)
}
