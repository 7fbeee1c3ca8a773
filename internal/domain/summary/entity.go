package summary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status classifies the quality of a day's attendance by utilization.
type Status string

const (
	StatusExcellent   Status = "excellent"
	StatusGood        Status = "good"
	StatusBelowTarget Status = "below_target"
	StatusIncomplete  Status = "incomplete"
	StatusAbsent      Status = "absent"
)

// AttendanceSummary is the daily per-employee-per-site aggregate. Exactly one
// row exists per (company, employee, site, date); it is recomputed in full
// whenever new events for that date arrive.
type AttendanceSummary struct {
	ID                 string
	CompanyID          string
	EmployeeID         string
	SiteID             string
	Date               time.Time // UTC calendar date
	FirstEntryAt       *time.Time
	LastExitAt         *time.Time
	TimeOnSiteMinutes  int
	ExpectedHours      decimal.Decimal
	UtilizationPercent decimal.Decimal
	Status             Status
	EntryCount         int
	ExitCount          int
	HasCompliancePhoto bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Utilization returns actualHours/expectedHours as a percentage rounded to
// two places, or zero when expectedHours is not positive.
func Utilization(actualHours, expectedHours decimal.Decimal) decimal.Decimal {
	if expectedHours.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return actualHours.Div(expectedHours).Mul(decimal.NewFromInt(100)).Round(2)
}

// ClassifyStatus maps a utilization percentage and event counts onto a Status.
func ClassifyStatus(utilization decimal.Decimal, entryCount, exitCount int) Status {
	switch {
	case utilization.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return StatusExcellent
	case utilization.GreaterThanOrEqual(decimal.NewFromInt(75)):
		return StatusGood
	case utilization.GreaterThan(decimal.Zero):
		return StatusBelowTarget
	case entryCount > 0 || exitCount > 0:
		return StatusIncomplete
	default:
		return StatusAbsent
	}
}
