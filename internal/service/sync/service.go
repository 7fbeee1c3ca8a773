package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sitecrew/attendance-backend-go/internal/config"
	"github.com/sitecrew/attendance-backend-go/internal/domain/device"
	"github.com/sitecrew/attendance-backend-go/internal/domain/employee"
	"github.com/sitecrew/attendance-backend-go/internal/domain/event"
	"github.com/sitecrew/attendance-backend-go/internal/domain/notification"
	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
	"github.com/sitecrew/attendance-backend-go/internal/domain/site"
	"github.com/sitecrew/attendance-backend-go/internal/domain/summary"
	"github.com/sitecrew/attendance-backend-go/internal/domain/synclog"
	"github.com/sitecrew/attendance-backend-go/internal/eventstore"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/geo"
	"github.com/sitecrew/attendance-backend-go/internal/service/geofence"
)

// flushSize is how many resolved events accumulate before a batch insert.
const flushSize = 100

type SyncServiceImpl struct {
	store eventstore.Source
	synclog.Repository
	eventRepo           event.Repository
	employeeRepo        employee.Repository
	siteRepo            site.Repository
	deviceRepo          device.Repository
	settingsService     settings.SettingsService
	geofenceService     geofence.Service
	summaryService      summary.SummaryService
	notificationService notification.NotificationService
	cfg                 config.SyncConfig
}

// RunForCompany implements synclog.SyncService.
func (s *SyncServiceImpl) RunForCompany(ctx context.Context, companyID string) (synclog.RunResult, error) {
	started := time.Now().UTC()

	runLog, err := s.Repository.Create(ctx, synclog.GeofenceSyncLog{
		CompanyID:   companyID,
		SyncStarted: started,
	})
	if err != nil {
		return synclog.RunResult{}, fmt.Errorf("failed to open sync log: %w", err)
	}

	result, runErr := s.run(ctx, companyID, &runLog)

	completed := time.Now().UTC()
	runLog.SyncCompleted = &completed
	if runErr != nil {
		msg := runErr.Error()
		runLog.ErrorMessage = &msg
	}
	if err := s.Repository.Update(ctx, runLog); err != nil {
		slog.Error("Cron: failed to close sync log", "company_id", companyID, "sync_log_id", runLog.ID, "error", err)
	}

	result.SyncLogID = runLog.ID
	if runErr != nil {
		return result, runErr
	}

	slog.Info("Cron: geofence sync completed",
		"company_id", companyID,
		"processed", runLog.RecordsProcessed,
		"created", runLog.RecordsCreated,
		"skipped", runLog.RecordsSkipped,
		"duration", completed.Sub(started).String(),
	)
	return result, nil
}

func (s *SyncServiceImpl) run(ctx context.Context, companyID string, runLog *synclog.GeofenceSyncLog) (synclog.RunResult, error) {
	var result synclog.RunResult

	if err := s.store.Ping(ctx); err != nil {
		return result, err
	}

	// The device cache refreshes even when no new events arrive, so the
	// status endpoint stays current during quiet periods.
	refreshed, err := s.refreshDeviceCache(ctx)
	if err != nil {
		slog.Warn("Cron: device cache refresh failed", "company_id", companyID, "error", err)
	}
	result.DevicesRefreshed = refreshed

	cursor, cursorID, err := s.cursor(ctx, companyID)
	if err != nil {
		return result, err
	}

	employeesByDevice, err := s.employeeRepo.MapByDeviceID(ctx, companyID)
	if err != nil {
		return result, fmt.Errorf("failed to map employees by device: %w", err)
	}
	sitesByCode, err := s.siteRepo.MapByExternalCode(ctx, companyID)
	if err != nil {
		return result, fmt.Errorf("failed to map sites by external code: %w", err)
	}
	companySettings, err := s.settingsService.GetOrCreate(ctx, companyID)
	if err != nil {
		return result, err
	}

	var (
		pending       []event.AttendanceEvent
		affectedDates = make(map[time.Time]bool)
		entryPairs    = make(map[notification.TriggerInput]bool)
		firstEntries  = make(map[dayKey]event.AttendanceEvent)
		unmapped      = make(map[int64]int64)
		lastEventID   *int64
		lastEventTS   *time.Time
	)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		if err := s.eventRepo.CreateBatch(ctx, pending); err != nil {
			return err
		}
		pending = pending[:0]
		return nil
	}

	for {
		batch, err := s.store.FetchEventsAfter(ctx, cursor, cursorID, s.cfg.BatchSize)
		if err != nil {
			return result, err
		}

		for _, ext := range batch {
			runLog.RecordsProcessed++
			id := ext.ID
			ts := ext.Timestamp
			lastEventID = &id
			lastEventTS = &ts

			emp, ok := employeesByDevice[ext.DeviceID]
			if !ok {
				unmapped[ext.DeviceID]++
				runLog.RecordsSkipped++
				continue
			}

			workSite, ok := sitesByCode[ext.SiteCode]
			if !ok {
				runLog.RecordsSkipped++
				continue
			}

			eventType := event.Type(ext.EventType)
			if eventType != event.TypeEnter && eventType != event.TypeExit {
				runLog.RecordsSkipped++
				continue
			}

			dup, err := s.eventRepo.HasDuplicate(ctx, companyID, emp.ID, workSite.ID, eventType, ext.Timestamp)
			if err != nil {
				return result, err
			}
			if dup {
				runLog.RecordsSkipped++
				continue
			}

			deviceID := ext.DeviceID
			evt := event.AttendanceEvent{
				CompanyID:       companyID,
				EmployeeID:      emp.ID,
				SiteID:          workSite.ID,
				EventType:       eventType,
				Timestamp:       ext.Timestamp,
				Latitude:        ext.Latitude,
				Longitude:       ext.Longitude,
				TriggerMethod:   triggerMethod(ext.TriggerMethod),
				SourceDeviceID:  &deviceID,
				ExternalEventID: &id,
			}

			if eventType == event.TypeEnter {
				if err := s.classifyEntry(ctx, &evt, firstEntries, companySettings.NoiseThresholdMeters); err != nil {
					return result, err
				}
			}

			pending = append(pending, evt)
			runLog.RecordsCreated++
			affectedDates[evt.Date()] = true

			if eventType == event.TypeEnter && !evt.IsNoise {
				entryPairs[notification.TriggerInput{
					CompanyID:  companyID,
					EmployeeID: emp.ID,
					SiteID:     workSite.ID,
					Date:       evt.Date(),
				}] = true
			}

			if len(pending) >= flushSize {
				if err := flush(); err != nil {
					return result, err
				}
			}
		}

		if len(batch) < s.cfg.BatchSize {
			break
		}
		// Keyset pagination: events sharing the boundary timestamp land in
		// the next page instead of being skipped.
		cursor = batch[len(batch)-1].Timestamp
		cursorID = batch[len(batch)-1].ID
	}

	if err := flush(); err != nil {
		return result, err
	}

	s.warnUnmapped(companyID, unmapped)

	runLog.LastEventID = lastEventID
	if lastEventTS != nil {
		runLog.LastEventTimestamp = lastEventTS
		result.LastEventStamp = lastEventTS.UTC().Format(time.RFC3339)
	} else {
		// No new events: carry the cursor forward so it never regresses.
		runLog.LastEventTimestamp = &cursor
		if cursorID != 0 {
			runLog.LastEventID = &cursorID
		}
	}

	for in := range entryPairs {
		if err := s.notificationService.TriggerMissingPhotoReminder(ctx, in); err != nil {
			slog.Warn("Cron: compliance reminder failed",
				"company_id", companyID,
				"employee_id", in.EmployeeID,
				"error", err,
			)
		}
	}

	if s.cfg.ProcessSummariesAfterSync {
		result.DatesAggregated, result.AggregationErrors = s.aggregate(ctx, companyID, affectedDates)
	}

	result.RecordsProcessed = runLog.RecordsProcessed
	result.RecordsCreated = runLog.RecordsCreated
	result.RecordsSkipped = runLog.RecordsSkipped
	return result, nil
}

// cursor returns the keyset position to resume from: the last event
// timestamp and id of the most recent successful run, or the configured
// backfill horizon on the very first run.
func (s *SyncServiceImpl) cursor(ctx context.Context, companyID string) (time.Time, int64, error) {
	last, err := s.Repository.LastSuccessful(ctx, companyID)
	if err != nil {
		return time.Time{}, 0, err
	}
	if last != nil && last.LastEventTimestamp != nil {
		var id int64
		if last.LastEventID != nil {
			id = *last.LastEventID
		}
		return last.LastEventTimestamp.UTC(), id, nil
	}
	return time.Now().UTC().AddDate(0, 0, -s.cfg.InitialSyncDays), 0, nil
}

// dayKey identifies one employee/site/date pairing stream.
type dayKey struct {
	employeeID string
	siteID     string
	date       time.Time
}

// classifyEntry flags an entry as noise when it lands within the company's
// noise threshold of the day's first real entry for the same employee and
// site: the fence re-fired without the employee going anywhere. The first
// entry of a day is never noise. The distance is recorded either way.
func (s *SyncServiceImpl) classifyEntry(ctx context.Context, evt *event.AttendanceEvent, firstEntries map[dayKey]event.AttendanceEvent, thresholdMeters int) error {
	key := dayKey{employeeID: evt.EmployeeID, siteID: evt.SiteID, date: evt.Date()}

	first, ok := firstEntries[key]
	if !ok {
		persisted, err := s.eventRepo.FirstEntryOfDay(ctx, evt.CompanyID, evt.EmployeeID, evt.SiteID, evt.Date())
		if err != nil {
			return fmt.Errorf("failed to look up first entry of day: %w", err)
		}
		if persisted != nil {
			first = *persisted
			firstEntries[key] = first
			ok = true
		}
	}

	if ok && first.HasCoordinates() && evt.HasCoordinates() {
		dist := geo.HaversineDistance(*first.Latitude, *first.Longitude, *evt.Latitude, *evt.Longitude)
		evt.NoiseDistanceMeters = &dist
		evt.IsNoise = s.geofenceService.IsNoise(dist, thresholdMeters)
	}

	if !ok && !evt.IsNoise {
		firstEntries[key] = *evt
	}
	return nil
}

func (s *SyncServiceImpl) refreshDeviceCache(ctx context.Context) (int, error) {
	roster, err := s.store.FetchDeviceRoster(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	statuses := make([]device.DeviceStatus, 0, len(roster))
	for _, d := range roster {
		statuses = append(statuses, device.DeviceStatus{
			ExternalDeviceID:   d.ID,
			PlatformIdentifier: d.PlatformIdentifier,
			Platform:           d.Platform,
			Model:              d.Model,
			Manufacturer:       d.Manufacturer,
			OSVersion:          d.OSVersion,
			DeviceType:         d.DeviceType,
			RegisteredAt:       d.RegisteredAt,
			LastSeenAt:         d.LastSeenAt,
			IsActive:           d.IsActive,
			LastLatitude:       d.LastLatitude,
			LastLongitude:      d.LastLongitude,
			LastAccuracy:       d.LastAccuracy,
			LastBatteryLevel:   d.LastBatteryLevel,
			RefreshedAt:        now,
		})
	}

	if err := s.deviceRepo.UpsertBatch(ctx, statuses); err != nil {
		return 0, err
	}
	return len(statuses), nil
}

// aggregate recomputes summaries for every date touched by this run. One
// failing date never blocks the rest.
func (s *SyncServiceImpl) aggregate(ctx context.Context, companyID string, dates map[time.Time]bool) (processed, failed int) {
	sorted := make([]time.Time, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	for _, d := range sorted {
		if _, err := s.summaryService.ProcessDate(ctx, companyID, d); err != nil {
			failed++
			slog.Error("Cron: daily aggregation failed",
				"company_id", companyID,
				"date", d.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		processed++
	}
	return processed, failed
}

func (s *SyncServiceImpl) warnUnmapped(companyID string, unmapped map[int64]int64) {
	if len(unmapped) == 0 {
		return
	}

	type deviceCount struct {
		id int64
		n  int64
	}
	counts := make([]deviceCount, 0, len(unmapped))
	for id, n := range unmapped {
		counts = append(counts, deviceCount{id: id, n: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].n > counts[j].n })
	if len(counts) > 10 {
		counts = counts[:10]
	}

	for _, c := range counts {
		slog.Warn("Cron: events from unmapped device skipped",
			"company_id", companyID,
			"external_device_id", c.id,
			"event_count", c.n,
		)
	}
}

func triggerMethod(external string) event.TriggerMethod {
	if external == string(event.TriggerManual) {
		return event.TriggerManual
	}
	return event.TriggerAutomatic
}

func NewSyncService(
	store eventstore.Source,
	syncLogRepo synclog.Repository,
	eventRepo event.Repository,
	employeeRepo employee.Repository,
	siteRepo site.Repository,
	deviceRepo device.Repository,
	settingsService settings.SettingsService,
	geofenceService geofence.Service,
	summaryService summary.SummaryService,
	notificationService notification.NotificationService,
	cfg config.SyncConfig,
) synclog.SyncService {
	return &SyncServiceImpl{
		store:               store,
		Repository:          syncLogRepo,
		eventRepo:           eventRepo,
		employeeRepo:        employeeRepo,
		siteRepo:            siteRepo,
		deviceRepo:          deviceRepo,
		settingsService:     settingsService,
		geofenceService:     geofenceService,
		summaryService:      summaryService,
		notificationService: notificationService,
		cfg:                 cfg,
	}
}
