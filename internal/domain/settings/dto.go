package settings

import (
	"github.com/shopspring/decimal"

	"github.com/sitecrew/attendance-backend-go/internal/pkg/validator"
)

type UpdateSettingsRequest struct {
	ExpectedHoursPerDay   *float64 `json:"expected_hours_per_day"`
	GeofenceRadiusMeters  *int     `json:"geofence_radius_meters"`
	NoiseThresholdMeters  *int     `json:"noise_threshold_meters"`
	SpaGracePeriodMinutes *int     `json:"spa_grace_period_minutes"`
	IncludeSaturday       *bool    `json:"include_saturday"`
	IncludeSunday         *bool    `json:"include_sunday"`
	NotifyPush            *bool    `json:"notify_push"`
	NotifyEmail           *bool    `json:"notify_email"`
	NotifySMS             *bool    `json:"notify_sms"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ExpectedHoursPerDay != nil && (*r.ExpectedHoursPerDay <= 0 || *r.ExpectedHoursPerDay > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "expected_hours_per_day",
			Message: "expected_hours_per_day must be between 0 and 24",
		})
	}
	if r.GeofenceRadiusMeters != nil && *r.GeofenceRadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "geofence_radius_meters",
			Message: "geofence_radius_meters must be positive",
		})
	}
	if r.NoiseThresholdMeters != nil && *r.NoiseThresholdMeters < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "noise_threshold_meters",
			Message: "noise_threshold_meters must not be negative",
		})
	}
	if r.SpaGracePeriodMinutes != nil && *r.SpaGracePeriodMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "spa_grace_period_minutes",
			Message: "spa_grace_period_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Apply copies the provided fields onto s.
func (r *UpdateSettingsRequest) Apply(s *AttendanceSettings) {
	if r.ExpectedHoursPerDay != nil {
		s.ExpectedHoursPerDay = decimal.NewFromFloat(*r.ExpectedHoursPerDay)
	}
	if r.GeofenceRadiusMeters != nil {
		s.GeofenceRadiusMeters = *r.GeofenceRadiusMeters
	}
	if r.NoiseThresholdMeters != nil {
		s.NoiseThresholdMeters = *r.NoiseThresholdMeters
	}
	if r.SpaGracePeriodMinutes != nil {
		s.SpaGracePeriodMinutes = *r.SpaGracePeriodMinutes
	}
	if r.IncludeSaturday != nil {
		s.IncludeSaturday = *r.IncludeSaturday
	}
	if r.IncludeSunday != nil {
		s.IncludeSunday = *r.IncludeSunday
	}
	if r.NotifyPush != nil {
		s.NotifyPush = *r.NotifyPush
	}
	if r.NotifyEmail != nil {
		s.NotifyEmail = *r.NotifyEmail
	}
	if r.NotifySMS != nil {
		s.NotifySMS = *r.NotifySMS
	}
}

type AddBankHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (r *AddBankHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
