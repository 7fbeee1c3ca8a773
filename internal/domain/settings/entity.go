package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultExpectedHoursPerDay  = 8
	DefaultGeofenceRadiusMeters = 100
	DefaultNoiseThresholdMeters = 150
	DefaultSpaGracePeriodMins   = 30
)

// AttendanceSettings is the per-company pipeline configuration. One row per
// company, created with defaults on first access.
type AttendanceSettings struct {
	ID                    string
	CompanyID             string
	ExpectedHoursPerDay   decimal.Decimal
	GeofenceRadiusMeters  int
	NoiseThresholdMeters  int
	SpaGracePeriodMinutes int
	IncludeSaturday       bool
	IncludeSunday         bool
	NotifyPush            bool
	NotifyEmail           bool
	NotifySMS             bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Defaults returns the settings a company starts with.
func Defaults(companyID string) AttendanceSettings {
	return AttendanceSettings{
		CompanyID:             companyID,
		ExpectedHoursPerDay:   decimal.NewFromInt(DefaultExpectedHoursPerDay),
		GeofenceRadiusMeters:  DefaultGeofenceRadiusMeters,
		NoiseThresholdMeters:  DefaultNoiseThresholdMeters,
		SpaGracePeriodMinutes: DefaultSpaGracePeriodMins,
		IncludeSaturday:       false,
		IncludeSunday:         false,
		NotifyPush:            true,
		NotifyEmail:           false,
		NotifySMS:             false,
	}
}

// BankHoliday is a per-company non-working date.
type BankHoliday struct {
	ID        string
	CompanyID string
	Date      time.Time // UTC calendar date
	Name      string
	CreatedAt time.Time
}
