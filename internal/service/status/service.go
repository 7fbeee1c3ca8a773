package status

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sitecrew/attendance-backend-go/internal/domain/device"
	"github.com/sitecrew/attendance-backend-go/internal/domain/employee"
	"github.com/sitecrew/attendance-backend-go/internal/domain/synclog"
	"github.com/sitecrew/attendance-backend-go/internal/eventstore"
)

// stalenessWindow is how old the last successful run may be before the
// pipeline reports unhealthy.
const stalenessWindow = 2 * time.Hour

// unmappedLookback bounds the event-volume ranking of unmapped devices.
const unmappedLookback = 7 * 24 * time.Hour

type StatusServiceImpl struct {
	synclog.Repository
	deviceRepo   device.Repository
	employeeRepo employee.Repository
	store        eventstore.Source
}

// Status implements synclog.StatusService.
func (s *StatusServiceImpl) Status(ctx context.Context, companyID string) (synclog.StatusResponse, error) {
	now := time.Now().UTC()

	last, err := s.Repository.LastSuccessful(ctx, companyID)
	if err != nil {
		return synclog.StatusResponse{}, err
	}

	counts, err := s.Repository.CountsSince(ctx, companyID, now.Add(-24*time.Hour))
	if err != nil {
		return synclog.StatusResponse{}, err
	}

	recent, err := s.Repository.ListRecent(ctx, companyID, 10)
	if err != nil {
		return synclog.StatusResponse{}, err
	}

	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return synclog.StatusResponse{}, err
	}

	resp := synclog.StatusResponse{
		Last24Hours: synclog.CountsResponse{
			Runs:             counts.Runs,
			Succeeded:        counts.Succeeded,
			Failed:           counts.Failed,
			RecordsProcessed: counts.RecordsProcessed,
			RecordsCreated:   counts.RecordsCreated,
			RecordsSkipped:   counts.RecordsSkipped,
		},
		RecentRuns:   make([]synclog.SyncLogResponse, 0, len(recent)),
		DevicesTotal: len(devices),
	}

	if last != nil && last.SyncCompleted != nil {
		completed := last.SyncCompleted.UTC().Format(time.RFC3339)
		resp.LastSuccessfulRun = &completed
		resp.Healthy = now.Sub(*last.SyncCompleted) <= stalenessWindow
		if last.LastEventTimestamp != nil {
			cursor := last.LastEventTimestamp.UTC().Format(time.RFC3339)
			resp.Cursor = &cursor
		}
	}

	for _, d := range devices {
		if d.IsOnline(now) {
			resp.DevicesOnline++
		}
	}

	for _, l := range recent {
		resp.RecentRuns = append(resp.RecentRuns, toSyncLogResponse(l))
	}

	return resp, nil
}

// UnmappedDevices implements synclog.StatusService.
func (s *StatusServiceImpl) UnmappedDevices(ctx context.Context, companyID string) ([]synclog.UnmappedDevice, error) {
	now := time.Now().UTC()

	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	mapped, err := s.employeeRepo.MapByDeviceID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to map employees by device: %w", err)
	}

	eventCounts, err := s.store.CountEventsByDevice(ctx, now.Add(-unmappedLookback))
	if err != nil {
		return nil, err
	}

	var unmapped []synclog.UnmappedDevice
	for _, d := range devices {
		if !d.IsActive {
			continue
		}
		if _, ok := mapped[d.ExternalDeviceID]; ok {
			continue
		}

		u := synclog.UnmappedDevice{
			ExternalDeviceID:   d.ExternalDeviceID,
			PlatformIdentifier: d.PlatformIdentifier,
			Platform:           d.Platform,
			Model:              d.Model,
			Online:             d.IsOnline(now),
			RecentEventCount:   eventCounts[d.ExternalDeviceID],
		}
		if d.LastSeenAt != nil {
			seen := d.LastSeenAt.UTC().Format(time.RFC3339)
			u.LastSeenAt = &seen
		}
		unmapped = append(unmapped, u)
	}

	sort.Slice(unmapped, func(i, j int) bool {
		return unmapped[i].RecentEventCount > unmapped[j].RecentEventCount
	})

	return unmapped, nil
}

func toSyncLogResponse(l synclog.GeofenceSyncLog) synclog.SyncLogResponse {
	resp := synclog.SyncLogResponse{
		ID:               l.ID,
		SyncStarted:      l.SyncStarted.UTC().Format(time.RFC3339),
		RecordsProcessed: l.RecordsProcessed,
		RecordsCreated:   l.RecordsCreated,
		RecordsSkipped:   l.RecordsSkipped,
		ErrorMessage:     l.ErrorMessage,
	}
	if l.SyncCompleted != nil {
		v := l.SyncCompleted.UTC().Format(time.RFC3339)
		resp.SyncCompleted = &v
	}
	if l.LastEventTimestamp != nil {
		v := l.LastEventTimestamp.UTC().Format(time.RFC3339)
		resp.LastEventTimestamp = &v
	}
	return resp
}

func NewStatusService(
	syncLogRepo synclog.Repository,
	deviceRepo device.Repository,
	employeeRepo employee.Repository,
	store eventstore.Source,
) synclog.StatusService {
	return &StatusServiceImpl{
		Repository:   syncLogRepo,
		deviceRepo:   deviceRepo,
		employeeRepo: employeeRepo,
		store:        store,
	}
}
