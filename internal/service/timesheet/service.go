package timesheet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitecrew/attendance-backend-go/internal/domain/event"
	"github.com/sitecrew/attendance-backend-go/internal/domain/notification"
	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
	"github.com/sitecrew/attendance-backend-go/internal/domain/summary"
)

// DayTotals is the output of pairing one employee/site/day event stream.
type DayTotals struct {
	Minutes      int
	FirstEntryAt *time.Time
	LastExitAt   *time.Time
	EntryCount   int
	ExitCount    int
}

// CalculateTimeOnSite pairs a day's events into on-site minutes. An enter
// opens an interval; a later enter replaces it (the earlier one is treated
// as a phantom that never closed). An exit closes the open interval; exits
// with no open interval count in ExitCount but add no time. A trailing open
// interval adds no time. Partial minutes are floored. Noise events count in
// EntryCount/ExitCount and the first/last stamps but never open or close an
// interval.
func CalculateTimeOnSite(events []event.AttendanceEvent) DayTotals {
	sorted := make([]event.AttendanceEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var totals DayTotals
	var openEntry *time.Time

	for _, e := range sorted {
		switch e.EventType {
		case event.TypeEnter:
			totals.EntryCount++
			ts := e.Timestamp
			if totals.FirstEntryAt == nil {
				totals.FirstEntryAt = &ts
			}
			if e.IsNoise {
				continue
			}
			openEntry = &ts
		case event.TypeExit:
			totals.ExitCount++
			ts := e.Timestamp
			totals.LastExitAt = &ts
			if e.IsNoise {
				continue
			}
			if openEntry != nil {
				delta := int(e.Timestamp.Sub(*openEntry).Minutes())
				if delta > 0 {
					totals.Minutes += delta
				}
				openEntry = nil
			}
		}
	}

	return totals
}

// IsWorkingDay reports whether a UTC calendar date counts toward expected
// hours under the company's weekend flags and bank holidays.
func IsWorkingDay(date time.Time, s settings.AttendanceSettings, holidays map[time.Time]bool) bool {
	day := date.UTC().Truncate(24 * time.Hour)

	switch day.Weekday() {
	case time.Saturday:
		if !s.IncludeSaturday {
			return false
		}
	case time.Sunday:
		if !s.IncludeSunday {
			return false
		}
	}

	return !holidays[day]
}

// CountWorkingDays counts working days in [from, to] inclusive.
func CountWorkingDays(from, to time.Time, s settings.AttendanceSettings, holidays map[time.Time]bool) int {
	start := from.UTC().Truncate(24 * time.Hour)
	end := to.UTC().Truncate(24 * time.Hour)

	count := 0
	for d := start; !d.After(end); d = d.Add(24 * time.Hour) {
		if IsWorkingDay(d, s, holidays) {
			count++
		}
	}
	return count
}

// HolidayMap indexes holidays by UTC calendar date.
func HolidayMap(holidays []settings.BankHoliday) map[time.Time]bool {
	m := make(map[time.Time]bool, len(holidays))
	for _, h := range holidays {
		m[h.Date.UTC().Truncate(24*time.Hour)] = true
	}
	return m
}

type SummaryServiceImpl struct {
	event.Repository
	summaryRepo     summary.Repository
	bankHolidayRepo settings.BankHolidayRepository
	photoChecker    notification.PhotoChecker
	settingsService settings.SettingsService
}

type pairKey struct {
	employeeID string
	siteID     string
}

// ProcessDate implements summary.SummaryService.
func (t *SummaryServiceImpl) ProcessDate(ctx context.Context, companyID string, date time.Time) (summary.ProcessResult, error) {
	day := date.UTC().Truncate(24 * time.Hour)

	events, err := t.Repository.ListForDate(ctx, companyID, day)
	if err != nil {
		return summary.ProcessResult{}, fmt.Errorf("failed to load events for aggregation: %w", err)
	}
	if len(events) == 0 {
		return summary.ProcessResult{Date: day.Format("2006-01-02")}, nil
	}

	companySettings, err := t.settingsService.GetOrCreate(ctx, companyID)
	if err != nil {
		return summary.ProcessResult{}, err
	}

	bankHolidays, err := t.bankHolidayRepo.ListByCompany(ctx, companyID, day, day)
	if err != nil {
		return summary.ProcessResult{}, fmt.Errorf("failed to load bank holidays: %w", err)
	}
	holidays := HolidayMap(bankHolidays)

	expectedHours := decimal.Zero
	if IsWorkingDay(day, companySettings, holidays) {
		expectedHours = companySettings.ExpectedHoursPerDay
	}

	// Whole-day recompute: group every event of the date, not just new
	// ones, so re-runs converge on the same summaries. Noise events stay in
	// the groups to be counted; pairing skips them.
	groups := make(map[pairKey][]event.AttendanceEvent)
	var unprocessedIDs []string
	for _, e := range events {
		if !e.Processed {
			unprocessedIDs = append(unprocessedIDs, e.ID)
		}
		key := pairKey{employeeID: e.EmployeeID, siteID: e.SiteID}
		groups[key] = append(groups[key], e)
	}

	upserted := 0
	for key, group := range groups {
		totals := CalculateTimeOnSite(group)

		actualHours := decimal.NewFromInt(int64(totals.Minutes)).Div(decimal.NewFromInt(60))
		utilization := summary.Utilization(actualHours, expectedHours)

		hasPhoto, err := t.photoChecker.HasCompliancePhoto(ctx, companyID, key.employeeID, key.siteID, day)
		if err != nil {
			return summary.ProcessResult{}, fmt.Errorf("failed to check compliance photo: %w", err)
		}

		_, err = t.summaryRepo.Upsert(ctx, summary.AttendanceSummary{
			CompanyID:          companyID,
			EmployeeID:         key.employeeID,
			SiteID:             key.siteID,
			Date:               day,
			FirstEntryAt:       totals.FirstEntryAt,
			LastExitAt:         totals.LastExitAt,
			TimeOnSiteMinutes:  totals.Minutes,
			ExpectedHours:      expectedHours,
			UtilizationPercent: utilization,
			Status:             summary.ClassifyStatus(utilization, totals.EntryCount, totals.ExitCount),
			EntryCount:         totals.EntryCount,
			ExitCount:          totals.ExitCount,
			HasCompliancePhoto: hasPhoto,
		})
		if err != nil {
			return summary.ProcessResult{}, err
		}
		upserted++
	}

	if err := t.Repository.MarkProcessed(ctx, companyID, unprocessedIDs); err != nil {
		return summary.ProcessResult{}, err
	}

	return summary.ProcessResult{
		Date:              day.Format("2006-01-02"),
		EventsProcessed:   len(unprocessedIDs),
		SummariesUpserted: upserted,
	}, nil
}

// ListByDate implements summary.SummaryService.
func (t *SummaryServiceImpl) ListByDate(ctx context.Context, companyID string, date time.Time) ([]summary.SummaryResponse, error) {
	summaries, err := t.summaryRepo.ListByDate(ctx, companyID, date)
	if err != nil {
		return nil, err
	}

	responses := make([]summary.SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, toSummaryResponse(s))
	}
	return responses, nil
}

func toSummaryResponse(s summary.AttendanceSummary) summary.SummaryResponse {
	resp := summary.SummaryResponse{
		ID:                 s.ID,
		EmployeeID:         s.EmployeeID,
		SiteID:             s.SiteID,
		Date:               s.Date.Format("2006-01-02"),
		TimeOnSiteMinutes:  s.TimeOnSiteMinutes,
		ExpectedHours:      s.ExpectedHours.StringFixed(2),
		UtilizationPercent: s.UtilizationPercent.StringFixed(2),
		Status:             string(s.Status),
		EntryCount:         s.EntryCount,
		ExitCount:          s.ExitCount,
		HasCompliancePhoto: s.HasCompliancePhoto,
	}
	if s.FirstEntryAt != nil {
		v := s.FirstEntryAt.UTC().Format(time.RFC3339)
		resp.FirstEntryAt = &v
	}
	if s.LastExitAt != nil {
		v := s.LastExitAt.UTC().Format(time.RFC3339)
		resp.LastExitAt = &v
	}
	return resp
}

func NewSummaryService(
	eventRepo event.Repository,
	summaryRepo summary.Repository,
	bankHolidayRepo settings.BankHolidayRepository,
	photoChecker notification.PhotoChecker,
	settingsService settings.SettingsService,
) summary.SummaryService {
	return &SummaryServiceImpl{
		Repository:      eventRepo,
		summaryRepo:     summaryRepo,
		bankHolidayRepo: bankHolidayRepo,
		photoChecker:    photoChecker,
		settingsService: settingsService,
	}
}
