package eventstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Source is the read surface of the external mobile-tracking datastore.
type Source interface {
	Ping(ctx context.Context) error
	FetchEventsAfter(ctx context.Context, cursor time.Time, afterID int64, limit int) ([]GeofenceEvent, error)
	FetchDeviceRoster(ctx context.Context) ([]Device, error)
	CountEventsByDevice(ctx context.Context, since time.Time) (map[int64]int64, error)
}

// Client is the read-only adapter for the externally-owned mobile-tracking
// datastore. It deliberately exposes no write operations; the pool it is
// built on forces read-only transactions as a second line of defense.
type Client struct {
	pool *pgxpool.Pool
}

func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool}
}

// Ping verifies connectivity to the external store.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("event store unreachable: %w", err)
	}
	return nil
}

// FetchEventsAfter returns up to limit events strictly after the
// (cursor, afterID) keyset position, ordered ascending by timestamp then id.
// The row comparison keeps events that share the boundary timestamp from
// falling between pages.
func (c *Client) FetchEventsAfter(ctx context.Context, cursor time.Time, afterID int64, limit int) ([]GeofenceEvent, error) {
	query := `
		SELECT id, user_id, site_id, event_type, timestamp,
		       latitude, longitude, trigger_method
		FROM geofence_events
		WHERE (timestamp, id) > ($1, $2)
		ORDER BY timestamp ASC, id ASC
		LIMIT $3
	`

	rows, err := c.pool.Query(ctx, query, cursor, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch geofence events: %w", err)
	}
	defer rows.Close()

	var events []GeofenceEvent
	for rows.Next() {
		var e GeofenceEvent
		err := rows.Scan(
			&e.ID, &e.DeviceID, &e.SiteCode, &e.EventType, &e.Timestamp,
			&e.Latitude, &e.Longitude, &e.TriggerMethod,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan geofence event: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		events = append(events, e)
	}

	return events, rows.Err()
}

// FetchDeviceRoster returns all devices known to the external store.
func (c *Client) FetchDeviceRoster(ctx context.Context) ([]Device, error) {
	query := `
		SELECT id, platform_identifier, platform, model, manufacturer,
		       os_version, device_type, registered_at, last_seen_at, is_active,
		       last_latitude, last_longitude, last_accuracy, last_battery_level
		FROM devices
	`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device roster: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		var d Device
		err := rows.Scan(
			&d.ID, &d.PlatformIdentifier, &d.Platform, &d.Model, &d.Manufacturer,
			&d.OSVersion, &d.DeviceType, &d.RegisteredAt, &d.LastSeenAt, &d.IsActive,
			&d.LastLatitude, &d.LastLongitude, &d.LastAccuracy, &d.LastBatteryLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}

	return devices, rows.Err()
}

// CountEventsByDevice returns per-device event volumes since the given time,
// used to rank the unmapped-devices report.
func (c *Client) CountEventsByDevice(ctx context.Context, since time.Time) (map[int64]int64, error) {
	query := `
		SELECT user_id, COUNT(*)
		FROM geofence_events
		WHERE timestamp > $1
		GROUP BY user_id
	`

	rows, err := c.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by device: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var deviceID, n int64
		if err := rows.Scan(&deviceID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[deviceID] = n
	}

	return counts, rows.Err()
}
