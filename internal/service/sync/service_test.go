package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	"github.com/sitecrew/attendance-backend-go/internal/service/geofence"
)

const (
	testCompanyID   = "company-1"
	testEmployeeID  = "employee-1"
	testEmployeeID2 = "employee-2"
	testSiteID      = "site-1"
	testDeviceID    = int64(101)
	testDeviceID2   = int64(102)
	testSiteCode    = "SITE-A"
)

// ~50 m and ~200 m north of the site origin, in decimal degrees.
const (
	deg50m  = 0.00045
	deg200m = 0.0018
)

func ptr[T any](v T) *T { return &v }

// ---- fakes ----

type fakeSource struct {
	events  []eventstore.GeofenceEvent
	devices []eventstore.Device
	pingErr error
}

func (f *fakeSource) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeSource) FetchEventsAfter(ctx context.Context, cursor time.Time, afterID int64, limit int) ([]eventstore.GeofenceEvent, error) {
	var out []eventstore.GeofenceEvent
	for _, e := range f.events {
		if e.Timestamp.After(cursor) || (e.Timestamp.Equal(cursor) && e.ID > afterID) {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSource) FetchDeviceRoster(ctx context.Context) ([]eventstore.Device, error) {
	return f.devices, nil
}

func (f *fakeSource) CountEventsByDevice(ctx context.Context, since time.Time) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	for _, e := range f.events {
		if e.Timestamp.After(since) {
			counts[e.DeviceID]++
		}
	}
	return counts, nil
}

type fakeEventRepo struct {
	events []event.AttendanceEvent
}

func (f *fakeEventRepo) Create(ctx context.Context, evt event.AttendanceEvent) (event.AttendanceEvent, error) {
	evt.ID = uuid.NewString()
	f.events = append(f.events, evt)
	return evt, nil
}

func (f *fakeEventRepo) CreateBatch(ctx context.Context, events []event.AttendanceEvent) error {
	for _, e := range events {
		e.ID = uuid.NewString()
		f.events = append(f.events, e)
	}
	return nil
}

func (f *fakeEventRepo) HasDuplicate(ctx context.Context, companyID, employeeID, siteID string, eventType event.Type, ts time.Time) (bool, error) {
	for _, e := range f.events {
		if e.CompanyID == companyID && e.EmployeeID == employeeID && e.SiteID == siteID && e.EventType == eventType {
			diff := e.Timestamp.Sub(ts)
			if diff < 0 {
				diff = -diff
			}
			if diff <= event.DuplicateWindow {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeEventRepo) FirstEntryOfDay(ctx context.Context, companyID, employeeID, siteID string, date time.Time) (*event.AttendanceEvent, error) {
	var first *event.AttendanceEvent
	for i := range f.events {
		e := f.events[i]
		if e.CompanyID != companyID || e.EmployeeID != employeeID || e.SiteID != siteID {
			continue
		}
		if e.EventType != event.TypeEnter || e.IsNoise || !e.Date().Equal(date) {
			continue
		}
		if first == nil || e.Timestamp.Before(first.Timestamp) {
			found := e
			first = &found
		}
	}
	return first, nil
}

func (f *fakeEventRepo) ListForDate(ctx context.Context, companyID string, date time.Time) ([]event.AttendanceEvent, error) {
	var out []event.AttendanceEvent
	for _, e := range f.events {
		if e.CompanyID == companyID && e.Date().Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) MarkProcessed(ctx context.Context, companyID string, ids []string) error {
	for i := range f.events {
		for _, id := range ids {
			if f.events[i].ID == id {
				f.events[i].Processed = true
			}
		}
	}
	return nil
}

type fakeSyncLogRepo struct {
	logs []synclog.GeofenceSyncLog
}

func (f *fakeSyncLogRepo) Create(ctx context.Context, l synclog.GeofenceSyncLog) (synclog.GeofenceSyncLog, error) {
	l.ID = uuid.NewString()
	f.logs = append(f.logs, l)
	return l, nil
}

func (f *fakeSyncLogRepo) Update(ctx context.Context, l synclog.GeofenceSyncLog) error {
	for i := range f.logs {
		if f.logs[i].ID == l.ID {
			f.logs[i] = l
			return nil
		}
	}
	return nil
}

func (f *fakeSyncLogRepo) LastSuccessful(ctx context.Context, companyID string) (*synclog.GeofenceSyncLog, error) {
	for i := len(f.logs) - 1; i >= 0; i-- {
		if f.logs[i].CompanyID == companyID && f.logs[i].Succeeded() {
			l := f.logs[i]
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeSyncLogRepo) ListRecent(ctx context.Context, companyID string, limit int) ([]synclog.GeofenceSyncLog, error) {
	return f.logs, nil
}

func (f *fakeSyncLogRepo) CountsSince(ctx context.Context, companyID string, since time.Time) (synclog.Counts, error) {
	return synclog.Counts{}, nil
}

type fakeEmployeeRepo struct{}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	return employee.Employee{ID: testEmployeeID, CompanyID: testCompanyID, FullName: "Sam Porter"}, nil
}

func (f *fakeEmployeeRepo) MapByDeviceID(ctx context.Context, companyID string) (map[int64]employee.Employee, error) {
	deviceID := testDeviceID
	deviceID2 := testDeviceID2
	return map[int64]employee.Employee{
		testDeviceID:  {ID: testEmployeeID, CompanyID: companyID, FullName: "Sam Porter", ExternalDeviceID: &deviceID},
		testDeviceID2: {ID: testEmployeeID2, CompanyID: companyID, FullName: "Lou Reyes", ExternalDeviceID: &deviceID2},
	}, nil
}

type fakeSiteRepo struct{}

func testSite() site.Site {
	return site.Site{
		ID:           testSiteID,
		CompanyID:    testCompanyID,
		Name:         "Depot",
		ExternalCode: ptr(testSiteCode),
		Latitude:     ptr(0.0),
		Longitude:    ptr(0.0),
		RadiusMeters: ptr(100),
		IsActive:     true,
	}
}

func (f *fakeSiteRepo) GetByID(ctx context.Context, id string, companyID string) (site.Site, error) {
	return testSite(), nil
}

func (f *fakeSiteRepo) ListActive(ctx context.Context, companyID string) ([]site.Site, error) {
	return []site.Site{testSite()}, nil
}

func (f *fakeSiteRepo) MapByExternalCode(ctx context.Context, companyID string) (map[string]site.Site, error) {
	return map[string]site.Site{testSiteCode: testSite()}, nil
}

type fakeDeviceRepo struct {
	statuses []device.DeviceStatus
}

func (f *fakeDeviceRepo) UpsertBatch(ctx context.Context, statuses []device.DeviceStatus) error {
	f.statuses = statuses
	return nil
}

func (f *fakeDeviceRepo) List(ctx context.Context) ([]device.DeviceStatus, error) {
	return f.statuses, nil
}

type fakeSettingsService struct{}

func (f *fakeSettingsService) GetOrCreate(ctx context.Context, companyID string) (settings.AttendanceSettings, error) {
	return settings.Defaults(companyID), nil
}

func (f *fakeSettingsService) Update(ctx context.Context, companyID string, req settings.UpdateSettingsRequest) (settings.AttendanceSettings, error) {
	return settings.Defaults(companyID), nil
}

func (f *fakeSettingsService) ListBankHolidays(ctx context.Context, companyID string, year int) ([]settings.BankHoliday, error) {
	return nil, nil
}

func (f *fakeSettingsService) AddBankHoliday(ctx context.Context, companyID string, req settings.AddBankHolidayRequest) (settings.BankHoliday, error) {
	return settings.BankHoliday{}, nil
}

func (f *fakeSettingsService) RemoveBankHoliday(ctx context.Context, companyID string, id string) error {
	return nil
}

type fakeSummaryService struct {
	processedDates []time.Time
}

func (f *fakeSummaryService) ProcessDate(ctx context.Context, companyID string, date time.Time) (summary.ProcessResult, error) {
	f.processedDates = append(f.processedDates, date)
	return summary.ProcessResult{}, nil
}

func (f *fakeSummaryService) ListByDate(ctx context.Context, companyID string, date time.Time) ([]summary.SummaryResponse, error) {
	return nil, nil
}

type fakeNotificationService struct {
	triggers []notification.TriggerInput
}

func (f *fakeNotificationService) TriggerMissingPhotoReminder(ctx context.Context, in notification.TriggerInput) error {
	f.triggers = append(f.triggers, in)
	return nil
}

func testConfig() config.SyncConfig {
	return config.SyncConfig{
		Enabled:                   true,
		IntervalMinutes:           15,
		BatchSize:                 1000,
		InitialSyncDays:           30,
		ProcessSummariesAfterSync: true,
		CompanyIDs:                []string{testCompanyID},
	}
}

func newTestService(source *fakeSource, eventRepo *fakeEventRepo, logRepo *fakeSyncLogRepo, summarySvc summary.SummaryService, notificationSvc notification.NotificationService, deviceRepo *fakeDeviceRepo, cfg config.SyncConfig) synclog.SyncService {
	return NewSyncService(
		source,
		logRepo,
		eventRepo,
		&fakeEmployeeRepo{},
		&fakeSiteRepo{},
		deviceRepo,
		&fakeSettingsService{},
		geofence.NewGeofenceService(),
		summarySvc,
		notificationSvc,
		cfg,
	)
}

func extEvent(id int64, deviceID int64, eventType string, ts time.Time, lat, lon float64) eventstore.GeofenceEvent {
	return eventstore.GeofenceEvent{
		ID:            id,
		DeviceID:      deviceID,
		SiteCode:      testSiteCode,
		EventType:     eventType,
		Timestamp:     ts,
		Latitude:      &lat,
		Longitude:     &lon,
		TriggerMethod: "automatic",
	}
}

func TestRunForCompany_FullCycle(t *testing.T) {
	ctx := context.Background()
	day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	source := &fakeSource{
		events: []eventstore.GeofenceEvent{
			extEvent(1, testDeviceID, "enter", day.Add(8*time.Hour), 0, 0),
			extEvent(2, testDeviceID, "enter", day.Add(10*time.Hour), deg50m, 0),       // near the first entry: noise
			extEvent(3, 999, "enter", day.Add(11*time.Hour), 0, 0),                     // unmapped device
			extEvent(4, testDeviceID, "enter", day.Add(11*time.Hour+30*time.Minute), deg200m, 0), // real re-arrival
			extEvent(5, testDeviceID, "exit", day.Add(12*time.Hour+30*time.Minute), 0, 0),
		},
		devices: []eventstore.Device{
			{ID: testDeviceID, PlatformIdentifier: "android-abc", IsActive: true},
			{ID: 999, PlatformIdentifier: "android-xyz", IsActive: true},
		},
	}

	eventRepo := &fakeEventRepo{}
	logRepo := &fakeSyncLogRepo{}
	summarySvc := &fakeSummaryService{}
	notificationSvc := &fakeNotificationService{}
	deviceRepo := &fakeDeviceRepo{}

	svc := newTestService(source, eventRepo, logRepo, summarySvc, notificationSvc, deviceRepo, testConfig())

	result, err := svc.RunForCompany(ctx, testCompanyID)
	require.NoError(t, err)

	assert.Equal(t, 5, result.RecordsProcessed)
	assert.Equal(t, 4, result.RecordsCreated)
	assert.Equal(t, 1, result.RecordsSkipped)
	assert.Equal(t, 2, result.DevicesRefreshed)
	assert.Equal(t, 1, result.DatesAggregated)
	assert.Equal(t, 0, result.AggregationErrors)

	// Stored events carry provenance and the noise classification. The
	// first entry is never noise; the repeat nearby is; the distant
	// re-arrival is real but still records its distance.
	require.Len(t, eventRepo.events, 4)
	firstEntry := eventRepo.events[0]
	assert.False(t, firstEntry.IsNoise)
	assert.Nil(t, firstEntry.NoiseDistanceMeters)

	noise := eventRepo.events[1]
	assert.True(t, noise.IsNoise)
	require.NotNil(t, noise.NoiseDistanceMeters)
	assert.InDelta(t, 50, *noise.NoiseDistanceMeters, 1)

	reentry := eventRepo.events[2]
	assert.False(t, reentry.IsNoise)
	require.NotNil(t, reentry.NoiseDistanceMeters)
	assert.InDelta(t, 200, *reentry.NoiseDistanceMeters, 2)

	for _, e := range eventRepo.events {
		assert.Equal(t, event.TriggerAutomatic, e.TriggerMethod)
		require.NotNil(t, e.SourceDeviceID)
		assert.Equal(t, testDeviceID, *e.SourceDeviceID)
	}

	// The sync log closed successfully with the cursor on the last event.
	require.Len(t, logRepo.logs, 1)
	closed := logRepo.logs[0]
	assert.True(t, closed.Succeeded())
	require.NotNil(t, closed.LastEventTimestamp)
	assert.Equal(t, day.Add(12*time.Hour+30*time.Minute), closed.LastEventTimestamp.UTC())
	require.NotNil(t, closed.LastEventID)
	assert.Equal(t, int64(5), *closed.LastEventID)

	// One affected date aggregated, one reminder pair triggered.
	require.Len(t, summarySvc.processedDates, 1)
	assert.Equal(t, day, summarySvc.processedDates[0])
	require.Len(t, notificationSvc.triggers, 1)
	assert.Equal(t, testEmployeeID, notificationSvc.triggers[0].EmployeeID)
}

func TestRunForCompany_SecondRunResumesFromCursor(t *testing.T) {
	ctx := context.Background()
	day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	source := &fakeSource{
		events: []eventstore.GeofenceEvent{
			extEvent(1, testDeviceID, "enter", day.Add(8*time.Hour), 0, 0),
		},
	}

	eventRepo := &fakeEventRepo{}
	logRepo := &fakeSyncLogRepo{}
	svc := newTestService(source, eventRepo, logRepo, &fakeSummaryService{}, &fakeNotificationService{}, &fakeDeviceRepo{}, testConfig())

	first, err := svc.RunForCompany(ctx, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.RecordsCreated)

	// Nothing new: the second run processes zero events and keeps the cursor.
	second, err := svc.RunForCompany(ctx, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.RecordsProcessed)
	assert.Len(t, eventRepo.events, 1)

	require.Len(t, logRepo.logs, 2)
	require.NotNil(t, logRepo.logs[1].LastEventTimestamp)
	assert.Equal(t, day.Add(8*time.Hour), logRepo.logs[1].LastEventTimestamp.UTC())
}

func TestRunForCompany_DuplicateWindowSkipsResyncedEvents(t *testing.T) {
	ctx := context.Background()
	day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	source := &fakeSource{
		events: []eventstore.GeofenceEvent{
			extEvent(1, testDeviceID, "enter", day.Add(8*time.Hour), 0, 0),
		},
	}

	eventRepo := &fakeEventRepo{}
	logRepo := &fakeSyncLogRepo{}
	svc := newTestService(source, eventRepo, logRepo, &fakeSummaryService{}, &fakeNotificationService{}, &fakeDeviceRepo{}, testConfig())

	_, err := svc.RunForCompany(ctx, testCompanyID)
	require.NoError(t, err)
	require.Len(t, eventRepo.events, 1)

	// The store re-serves the same physical event 900 ms later, past the
	// cursor. The duplicate window catches it; a shifted copy outside the
	// window does not, and lands as noise right on top of the day's first
	// entry.
	source.events = append(source.events,
		extEvent(2, testDeviceID, "enter", day.Add(8*time.Hour+900*time.Millisecond), 0, 0),
		extEvent(3, testDeviceID, "enter", day.Add(8*time.Hour+1100*time.Millisecond), 0, 0),
	)

	result, err := svc.RunForCompany(ctx, testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RecordsProcessed)
	assert.Equal(t, 1, result.RecordsSkipped)
	assert.Equal(t, 1, result.RecordsCreated)
	require.Len(t, eventRepo.events, 2)
	assert.True(t, eventRepo.events[1].IsNoise)
}

func TestRunForCompany_PaginationKeepsBoundaryTimestampEvents(t *testing.T) {
	ctx := context.Background()
	day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	// Two employees exit at the exact same second; a batch size of three
	// splits that second across a page boundary.
	source := &fakeSource{
		events: []eventstore.GeofenceEvent{
			extEvent(1, testDeviceID, "enter", day.Add(8*time.Hour), 0, 0),
			extEvent(2, testDeviceID2, "enter", day.Add(8*time.Hour+5*time.Minute), 0, 0),
			extEvent(3, testDeviceID, "exit", day.Add(12*time.Hour), 0, 0),
			extEvent(4, testDeviceID2, "exit", day.Add(12*time.Hour), 0, 0),
		},
	}

	cfg := testConfig()
	cfg.BatchSize = 3

	eventRepo := &fakeEventRepo{}
	logRepo := &fakeSyncLogRepo{}
	svc := newTestService(source, eventRepo, logRepo, &fakeSummaryService{}, &fakeNotificationService{}, &fakeDeviceRepo{}, cfg)

	result, err := svc.RunForCompany(ctx, testCompanyID)
	require.NoError(t, err)

	assert.Equal(t, 4, result.RecordsProcessed)
	assert.Equal(t, 4, result.RecordsCreated)
	assert.Equal(t, 0, result.RecordsSkipped)
	require.Len(t, eventRepo.events, 4)

	require.Len(t, logRepo.logs, 1)
	require.NotNil(t, logRepo.logs[0].LastEventID)
	assert.Equal(t, int64(4), *logRepo.logs[0].LastEventID)
}

func TestRunForCompany_StoreUnreachableClosesLogWithError(t *testing.T) {
	ctx := context.Background()

	source := &fakeSource{pingErr: assert.AnError}
	logRepo := &fakeSyncLogRepo{}
	svc := newTestService(source, &fakeEventRepo{}, logRepo, &fakeSummaryService{}, &fakeNotificationService{}, &fakeDeviceRepo{}, testConfig())

	_, err := svc.RunForCompany(ctx, testCompanyID)
	require.Error(t, err)

	require.Len(t, logRepo.logs, 1)
	assert.False(t, logRepo.logs[0].Succeeded())
	require.NotNil(t, logRepo.logs[0].ErrorMessage)
}
