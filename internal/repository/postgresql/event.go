package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/attendance-backend-go/internal/domain/event"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type eventRepository struct {
	db *database.DB
}

const eventColumns = `
	id, company_id, employee_id, site_id, event_type, timestamp,
	latitude, longitude, trigger_method, source_device_id, external_event_id,
	is_noise, noise_distance_meters, processed, deleted_at, created_at, updated_at`

func scanEvent(row pgx.Row) (event.AttendanceEvent, error) {
	var e event.AttendanceEvent
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeID, &e.SiteID, &e.EventType, &e.Timestamp,
		&e.Latitude, &e.Longitude, &e.TriggerMethod, &e.SourceDeviceID, &e.ExternalEventID,
		&e.IsNoise, &e.NoiseDistanceMeters, &e.Processed, &e.DeletedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements event.Repository.
func (r *eventRepository) Create(ctx context.Context, evt event.AttendanceEvent) (event.AttendanceEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_events (
			company_id, employee_id, site_id, event_type, timestamp,
			latitude, longitude, trigger_method, source_device_id, external_event_id,
			is_noise, noise_distance_meters
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		evt.CompanyID,
		evt.EmployeeID,
		evt.SiteID,
		evt.EventType,
		evt.Timestamp,
		evt.Latitude,
		evt.Longitude,
		evt.TriggerMethod,
		evt.SourceDeviceID,
		evt.ExternalEventID,
		evt.IsNoise,
		evt.NoiseDistanceMeters,
	).Scan(&evt.ID, &evt.CreatedAt, &evt.UpdatedAt)

	if err != nil {
		return event.AttendanceEvent{}, fmt.Errorf("failed to create attendance event: %w", err)
	}

	return evt, nil
}

// CreateBatch implements event.Repository.
func (r *eventRepository) CreateBatch(ctx context.Context, events []event.AttendanceEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO attendance_events (
			company_id, employee_id, site_id, event_type, timestamp,
			latitude, longitude, trigger_method, source_device_id, external_event_id,
			is_noise, noise_distance_meters
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`
	for _, evt := range events {
		batch.Queue(query,
			evt.CompanyID, evt.EmployeeID, evt.SiteID, evt.EventType, evt.Timestamp,
			evt.Latitude, evt.Longitude, evt.TriggerMethod, evt.SourceDeviceID, evt.ExternalEventID,
			evt.IsNoise, evt.NoiseDistanceMeters,
		)
	}

	// The Querier abstraction does not expose SendBatch, so flushes go
	// straight to the pool.
	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to batch-create attendance events: %w", err)
		}
	}

	return nil
}

// HasDuplicate implements event.Repository.
func (r *eventRepository) HasDuplicate(ctx context.Context, companyID, employeeID, siteID string, eventType event.Type, ts time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM attendance_events
			WHERE company_id = $1
			  AND employee_id = $2
			  AND site_id = $3
			  AND event_type = $4
			  AND timestamp BETWEEN $5 AND $6
			  AND deleted_at IS NULL
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query,
		companyID, employeeID, siteID, eventType,
		ts.Add(-event.DuplicateWindow), ts.Add(event.DuplicateWindow),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate event: %w", err)
	}

	return exists, nil
}

// FirstEntryOfDay implements event.Repository.
func (r *eventRepository) FirstEntryOfDay(ctx context.Context, companyID, employeeID, siteID string, date time.Time) (*event.AttendanceEvent, error) {
	q := GetQuerier(ctx, r.db)

	dayStart := date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE company_id = $1
		  AND employee_id = $2
		  AND site_id = $3
		  AND event_type = $4
		  AND timestamp >= $5 AND timestamp < $6
		  AND is_noise = false
		  AND deleted_at IS NULL
		ORDER BY timestamp ASC
		LIMIT 1
	`

	e, err := scanEvent(q.QueryRow(ctx, query, companyID, employeeID, siteID, event.TypeEnter, dayStart, dayEnd))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no entry yet today
		}
		return nil, fmt.Errorf("failed to get first entry of day: %w", err)
	}

	return &e, nil
}

// ListForDate implements event.Repository.
func (r *eventRepository) ListForDate(ctx context.Context, companyID string, date time.Time) ([]event.AttendanceEvent, error) {
	q := GetQuerier(ctx, r.db)

	dayStart := date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE company_id = $1
		  AND timestamp >= $2 AND timestamp < $3
		  AND deleted_at IS NULL
		ORDER BY timestamp ASC
	`

	rows, err := q.Query(ctx, query, companyID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed events: %w", err)
	}
	defer rows.Close()

	var events []event.AttendanceEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// MarkProcessed implements event.Repository.
func (r *eventRepository) MarkProcessed(ctx context.Context, companyID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_events
		SET processed = true, updated_at = $3
		WHERE company_id = $1 AND id = ANY($2)
	`

	if _, err := q.Exec(ctx, query, companyID, ids, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark events processed: %w", err)
	}

	return nil
}

func NewEventRepository(db *database.DB) event.Repository {
	return &eventRepository{db: db}
}
