package checkin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/sitecrew/attendance-backend-go/internal/domain/event"
	"github.com/sitecrew/attendance-backend-go/internal/domain/notification"
	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
	"github.com/sitecrew/attendance-backend-go/internal/domain/site"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/geo"
	"github.com/sitecrew/attendance-backend-go/internal/service/geofence"
)

type EventServiceImpl struct {
	event.Repository
	siteRepo            site.Repository
	settingsService     settings.SettingsService
	geofenceService     geofence.Service
	notificationService notification.NotificationService
}

// CheckIn implements event.EventService.
func (s *EventServiceImpl) CheckIn(ctx context.Context, req event.CheckInRequest) (event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return event.EventResponse{}, err
	}
	now := time.Now().UTC()

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return event.EventResponse{}, err
	}

	companySettings, err := s.settingsService.GetOrCreate(ctx, companyID)
	if err != nil {
		return event.EventResponse{}, err
	}

	nearest, dist, err := s.resolveSite(ctx, companyID, companySettings, req.Latitude, req.Longitude)
	if err != nil {
		return event.EventResponse{}, err
	}

	dup, err := s.Repository.HasDuplicate(ctx, companyID, req.EmployeeID, nearest.ID, event.TypeEnter, now)
	if err != nil {
		return event.EventResponse{}, err
	}
	if dup {
		return event.EventResponse{}, event.ErrDuplicateEvent
	}

	evt := event.AttendanceEvent{
		CompanyID:     companyID,
		EmployeeID:    req.EmployeeID,
		SiteID:        nearest.ID,
		EventType:     event.TypeEnter,
		Timestamp:     now,
		Latitude:      &req.Latitude,
		Longitude:     &req.Longitude,
		TriggerMethod: event.TriggerManual,
	}
	// Only entries are noise-filtered: a repeat check-in close to where the
	// day started is the fence re-firing, not a real re-arrival. The first
	// entry of the day is never noise.
	first, err := s.Repository.FirstEntryOfDay(ctx, companyID, req.EmployeeID, nearest.ID, evt.Date())
	if err != nil {
		return event.EventResponse{}, fmt.Errorf("failed to look up first entry of day: %w", err)
	}
	if first != nil && first.HasCoordinates() {
		entryDist := geo.HaversineDistance(*first.Latitude, *first.Longitude, req.Latitude, req.Longitude)
		evt.NoiseDistanceMeters = &entryDist
		evt.IsNoise = s.geofenceService.IsNoise(entryDist, companySettings.NoiseThresholdMeters)
	}

	created, err := s.Repository.Create(ctx, evt)
	if err != nil {
		return event.EventResponse{}, err
	}

	if !created.IsNoise {
		s.maybeTriggerPhotoReminder(ctx, created)
	}

	return toEventResponse(created, nearest.Name, dist), nil
}

// CheckOut implements event.EventService.
func (s *EventServiceImpl) CheckOut(ctx context.Context, req event.CheckOutRequest) (event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return event.EventResponse{}, err
	}
	now := time.Now().UTC()

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return event.EventResponse{}, err
	}

	companySettings, err := s.settingsService.GetOrCreate(ctx, companyID)
	if err != nil {
		return event.EventResponse{}, err
	}

	nearest, dist, err := s.resolveSite(ctx, companyID, companySettings, req.Latitude, req.Longitude)
	if err != nil {
		return event.EventResponse{}, err
	}

	dup, err := s.Repository.HasDuplicate(ctx, companyID, req.EmployeeID, nearest.ID, event.TypeExit, now)
	if err != nil {
		return event.EventResponse{}, err
	}
	if dup {
		return event.EventResponse{}, event.ErrDuplicateEvent
	}

	created, err := s.Repository.Create(ctx, event.AttendanceEvent{
		CompanyID:     companyID,
		EmployeeID:    req.EmployeeID,
		SiteID:        nearest.ID,
		EventType:     event.TypeExit,
		Timestamp:     now,
		Latitude:      &req.Latitude,
		Longitude:     &req.Longitude,
		TriggerMethod: event.TriggerManual,
	})
	if err != nil {
		return event.EventResponse{}, err
	}

	return toEventResponse(created, nearest.Name, dist), nil
}

// resolveSite picks the nearest active site and enforces its geofence.
func (s *EventServiceImpl) resolveSite(ctx context.Context, companyID string, companySettings settings.AttendanceSettings, lat, lon float64) (site.Site, float64, error) {
	sites, err := s.siteRepo.ListActive(ctx, companyID)
	if err != nil {
		return site.Site{}, 0, fmt.Errorf("failed to list active sites: %w", err)
	}

	nearest, _, err := s.geofenceService.NearestSite(sites, lat, lon)
	if err != nil {
		return site.Site{}, 0, err
	}

	within, dist := s.geofenceService.WithinGeofence(nearest, companySettings.GeofenceRadiusMeters, lat, lon)
	if !within {
		return site.Site{}, 0, event.ErrOutsideGeofence
	}

	return nearest, dist, nil
}

// maybeTriggerPhotoReminder raises the compliance reminder on the first real
// entry of the day. Failures are logged; a check-in never fails because a
// reminder could not be sent.
func (s *EventServiceImpl) maybeTriggerPhotoReminder(ctx context.Context, created event.AttendanceEvent) {
	first, err := s.Repository.FirstEntryOfDay(ctx, created.CompanyID, created.EmployeeID, created.SiteID, created.Date())
	if err != nil {
		slog.Warn("Failed to look up first entry of day", "event_id", created.ID, "error", err)
		return
	}
	if first == nil || first.ID != created.ID {
		return
	}

	err = s.notificationService.TriggerMissingPhotoReminder(ctx, notification.TriggerInput{
		CompanyID:  created.CompanyID,
		EmployeeID: created.EmployeeID,
		SiteID:     created.SiteID,
		EventID:    &created.ID,
		Date:       created.Date(),
	})
	if err != nil {
		slog.Warn("Failed to trigger compliance photo reminder", "event_id", created.ID, "error", err)
	}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

func toEventResponse(evt event.AttendanceEvent, siteName string, dist float64) event.EventResponse {
	return event.EventResponse{
		ID:                  evt.ID,
		EmployeeID:          evt.EmployeeID,
		SiteID:              evt.SiteID,
		SiteName:            siteName,
		EventType:           string(evt.EventType),
		Timestamp:           evt.Timestamp.UTC().Format(time.RFC3339),
		Latitude:            evt.Latitude,
		Longitude:           evt.Longitude,
		TriggerMethod:       string(evt.TriggerMethod),
		IsNoise:             evt.IsNoise,
		NoiseDistanceMeters: evt.NoiseDistanceMeters,
		DistanceToSite:      &dist,
	}
}

func NewEventService(
	eventRepo event.Repository,
	siteRepo site.Repository,
	settingsService settings.SettingsService,
	geofenceService geofence.Service,
	notificationService notification.NotificationService,
) event.EventService {
	return &EventServiceImpl{
		Repository:          eventRepo,
		siteRepo:            siteRepo,
		settingsService:     settingsService,
		geofenceService:     geofenceService,
		notificationService: notificationService,
	}
}
