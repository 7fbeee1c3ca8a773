package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/attendance-backend-go/internal/domain/device"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type deviceStatusRepository struct {
	db *database.DB
}

// UpsertBatch implements device.Repository.
func (r *deviceStatusRepository) UpsertBatch(ctx context.Context, statuses []device.DeviceStatus) error {
	if len(statuses) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO device_statuses (
			external_device_id, platform_identifier, platform, model, manufacturer,
			os_version, device_type, registered_at, last_seen_at, is_active,
			last_latitude, last_longitude, last_accuracy, last_battery_level, refreshed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
		ON CONFLICT (external_device_id) DO UPDATE SET
			platform_identifier = EXCLUDED.platform_identifier,
			platform = EXCLUDED.platform,
			model = EXCLUDED.model,
			manufacturer = EXCLUDED.manufacturer,
			os_version = EXCLUDED.os_version,
			device_type = EXCLUDED.device_type,
			registered_at = EXCLUDED.registered_at,
			last_seen_at = EXCLUDED.last_seen_at,
			is_active = EXCLUDED.is_active,
			last_latitude = EXCLUDED.last_latitude,
			last_longitude = EXCLUDED.last_longitude,
			last_accuracy = EXCLUDED.last_accuracy,
			last_battery_level = EXCLUDED.last_battery_level,
			refreshed_at = EXCLUDED.refreshed_at
	`
	for _, s := range statuses {
		batch.Queue(query,
			s.ExternalDeviceID, s.PlatformIdentifier, s.Platform, s.Model, s.Manufacturer,
			s.OSVersion, s.DeviceType, s.RegisteredAt, s.LastSeenAt, s.IsActive,
			s.LastLatitude, s.LastLongitude, s.LastAccuracy, s.LastBatteryLevel, s.RefreshedAt,
		)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range statuses {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert device statuses: %w", err)
		}
	}

	return nil
}

// List implements device.Repository.
func (r *deviceStatusRepository) List(ctx context.Context) ([]device.DeviceStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT external_device_id, platform_identifier, platform, model, manufacturer,
		       os_version, device_type, registered_at, last_seen_at, is_active,
		       last_latitude, last_longitude, last_accuracy, last_battery_level, refreshed_at
		FROM device_statuses
		ORDER BY external_device_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list device statuses: %w", err)
	}
	defer rows.Close()

	var statuses []device.DeviceStatus
	for rows.Next() {
		var s device.DeviceStatus
		err := rows.Scan(
			&s.ExternalDeviceID, &s.PlatformIdentifier, &s.Platform, &s.Model, &s.Manufacturer,
			&s.OSVersion, &s.DeviceType, &s.RegisteredAt, &s.LastSeenAt, &s.IsActive,
			&s.LastLatitude, &s.LastLongitude, &s.LastAccuracy, &s.LastBatteryLevel, &s.RefreshedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device status: %w", err)
		}
		statuses = append(statuses, s)
	}

	return statuses, rows.Err()
}

func NewDeviceStatusRepository(db *database.DB) device.Repository {
	return &deviceStatusRepository{db: db}
}
