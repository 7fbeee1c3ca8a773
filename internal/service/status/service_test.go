package status

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecrew/attendance-backend-go/internal/domain/device"
	"github.com/sitecrew/attendance-backend-go/internal/domain/employee"
	"github.com/sitecrew/attendance-backend-go/internal/domain/synclog"
	"github.com/sitecrew/attendance-backend-go/internal/eventstore"
)

func ptr[T any](v T) *T { return &v }

type fakeSyncLogRepo struct {
	last   *synclog.GeofenceSyncLog
	recent []synclog.GeofenceSyncLog
	counts synclog.Counts
}

func (f *fakeSyncLogRepo) Create(ctx context.Context, l synclog.GeofenceSyncLog) (synclog.GeofenceSyncLog, error) {
	return l, nil
}

func (f *fakeSyncLogRepo) Update(ctx context.Context, l synclog.GeofenceSyncLog) error {
	return nil
}

func (f *fakeSyncLogRepo) LastSuccessful(ctx context.Context, companyID string) (*synclog.GeofenceSyncLog, error) {
	return f.last, nil
}

func (f *fakeSyncLogRepo) ListRecent(ctx context.Context, companyID string, limit int) ([]synclog.GeofenceSyncLog, error) {
	return f.recent, nil
}

func (f *fakeSyncLogRepo) CountsSince(ctx context.Context, companyID string, since time.Time) (synclog.Counts, error) {
	return f.counts, nil
}

type fakeDeviceRepo struct {
	devices []device.DeviceStatus
}

func (f *fakeDeviceRepo) UpsertBatch(ctx context.Context, statuses []device.DeviceStatus) error {
	return nil
}

func (f *fakeDeviceRepo) List(ctx context.Context) ([]device.DeviceStatus, error) {
	return f.devices, nil
}

type fakeEmployeeRepo struct {
	mapped map[int64]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	return employee.Employee{}, nil
}

func (f *fakeEmployeeRepo) MapByDeviceID(ctx context.Context, companyID string) (map[int64]employee.Employee, error) {
	return f.mapped, nil
}

type fakeSource struct {
	counts map[int64]int64
}

func (f *fakeSource) Ping(ctx context.Context) error { return nil }

func (f *fakeSource) FetchEventsAfter(ctx context.Context, cursor time.Time, afterID int64, limit int) ([]eventstore.GeofenceEvent, error) {
	return nil, nil
}

func (f *fakeSource) FetchDeviceRoster(ctx context.Context) ([]eventstore.Device, error) {
	return nil, nil
}

func (f *fakeSource) CountEventsByDevice(ctx context.Context, since time.Time) (map[int64]int64, error) {
	return f.counts, nil
}

func successfulRun(completed time.Time, cursor time.Time) *synclog.GeofenceSyncLog {
	return &synclog.GeofenceSyncLog{
		ID:                 "log-1",
		CompanyID:          "company-1",
		SyncStarted:        completed.Add(-time.Minute),
		SyncCompleted:      &completed,
		LastEventTimestamp: &cursor,
	}
}

func TestStatus_HealthyWithinWindow(t *testing.T) {
	now := time.Now().UTC()
	cursor := now.Add(-20 * time.Minute)

	logRepo := &fakeSyncLogRepo{
		last:   successfulRun(now.Add(-10*time.Minute), cursor),
		recent: []synclog.GeofenceSyncLog{*successfulRun(now.Add(-10*time.Minute), cursor)},
		counts: synclog.Counts{Runs: 4, Succeeded: 4, RecordsProcessed: 120, RecordsCreated: 100, RecordsSkipped: 20},
	}
	online := now.Add(-5 * time.Minute)
	offline := now.Add(-3 * time.Hour)
	deviceRepo := &fakeDeviceRepo{devices: []device.DeviceStatus{
		{ExternalDeviceID: 101, PlatformIdentifier: "android-abc", LastSeenAt: &online},
		{ExternalDeviceID: 102, PlatformIdentifier: "android-def", LastSeenAt: &offline},
	}}

	svc := NewStatusService(logRepo, deviceRepo, &fakeEmployeeRepo{}, &fakeSource{})

	resp, err := svc.Status(context.Background(), "company-1")
	require.NoError(t, err)

	assert.True(t, resp.Healthy)
	require.NotNil(t, resp.LastSuccessfulRun)
	require.NotNil(t, resp.Cursor)
	assert.Equal(t, cursor.Format(time.RFC3339), *resp.Cursor)
	assert.Equal(t, 4, resp.Last24Hours.Runs)
	assert.Equal(t, 100, resp.Last24Hours.RecordsCreated)
	assert.Equal(t, 2, resp.DevicesTotal)
	assert.Equal(t, 1, resp.DevicesOnline)
	require.Len(t, resp.RecentRuns, 1)
	assert.Equal(t, "log-1", resp.RecentRuns[0].ID)
}

func TestStatus_StaleRunReportsUnhealthy(t *testing.T) {
	now := time.Now().UTC()
	logRepo := &fakeSyncLogRepo{
		last: successfulRun(now.Add(-3*time.Hour), now.Add(-3*time.Hour)),
	}

	svc := NewStatusService(logRepo, &fakeDeviceRepo{}, &fakeEmployeeRepo{}, &fakeSource{})

	resp, err := svc.Status(context.Background(), "company-1")
	require.NoError(t, err)
	assert.False(t, resp.Healthy)
	assert.NotNil(t, resp.LastSuccessfulRun)
}

func TestStatus_NeverSynced(t *testing.T) {
	svc := NewStatusService(&fakeSyncLogRepo{}, &fakeDeviceRepo{}, &fakeEmployeeRepo{}, &fakeSource{})

	resp, err := svc.Status(context.Background(), "company-1")
	require.NoError(t, err)
	assert.False(t, resp.Healthy)
	assert.Nil(t, resp.LastSuccessfulRun)
	assert.Nil(t, resp.Cursor)
}

func TestUnmappedDevices_RankedByEventVolume(t *testing.T) {
	now := time.Now().UTC()
	seen := now.Add(-10 * time.Minute)

	deviceRepo := &fakeDeviceRepo{devices: []device.DeviceStatus{
		{ExternalDeviceID: 101, PlatformIdentifier: "android-abc", IsActive: true, LastSeenAt: &seen},
		{ExternalDeviceID: 201, PlatformIdentifier: "android-quiet", IsActive: true, Platform: ptr("android")},
		{ExternalDeviceID: 202, PlatformIdentifier: "ios-busy", IsActive: true, Platform: ptr("ios"), LastSeenAt: &seen},
		{ExternalDeviceID: 203, PlatformIdentifier: "android-retired", IsActive: false, LastSeenAt: &seen},
	}}
	employeeRepo := &fakeEmployeeRepo{mapped: map[int64]employee.Employee{
		101: {ID: "employee-1"},
	}}
	source := &fakeSource{counts: map[int64]int64{101: 50, 201: 3, 202: 40, 203: 99}}

	svc := NewStatusService(&fakeSyncLogRepo{}, deviceRepo, employeeRepo, source)

	unmapped, err := svc.UnmappedDevices(context.Background(), "company-1")
	require.NoError(t, err)

	// The mapped device and the retired one are excluded; the rest sort by
	// recent event count.
	require.Len(t, unmapped, 2)
	assert.Equal(t, int64(202), unmapped[0].ExternalDeviceID)
	assert.Equal(t, int64(40), unmapped[0].RecentEventCount)
	assert.True(t, unmapped[0].Online)
	assert.Equal(t, int64(201), unmapped[1].ExternalDeviceID)
	assert.False(t, unmapped[1].Online)
	assert.Nil(t, unmapped[1].LastSeenAt)
}
