package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

const settingsColumns = `
	id, company_id, expected_hours_per_day, geofence_radius_meters,
	noise_threshold_meters, spa_grace_period_minutes,
	include_saturday, include_sunday,
	notify_push, notify_email, notify_sms, created_at, updated_at`

func scanSettings(row pgx.Row) (settings.AttendanceSettings, error) {
	var s settings.AttendanceSettings
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.ExpectedHoursPerDay, &s.GeofenceRadiusMeters,
		&s.NoiseThresholdMeters, &s.SpaGracePeriodMinutes,
		&s.IncludeSaturday, &s.IncludeSunday,
		&s.NotifyPush, &s.NotifyEmail, &s.NotifySMS, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetByCompanyID implements settings.Repository.
func (r *settingsRepository) GetByCompanyID(ctx context.Context, companyID string) (settings.AttendanceSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + settingsColumns + `
		FROM attendance_settings
		WHERE company_id = $1
	`

	s, err := scanSettings(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.AttendanceSettings{}, settings.ErrSettingsNotFound
		}
		return settings.AttendanceSettings{}, fmt.Errorf("failed to get attendance settings: %w", err)
	}

	return s, nil
}

// Create implements settings.Repository.
func (r *settingsRepository) Create(ctx context.Context, s settings.AttendanceSettings) (settings.AttendanceSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_settings (
			company_id, expected_hours_per_day, geofence_radius_meters,
			noise_threshold_meters, spa_grace_period_minutes,
			include_saturday, include_sunday,
			notify_push, notify_email, notify_sms
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.CompanyID, s.ExpectedHoursPerDay, s.GeofenceRadiusMeters,
		s.NoiseThresholdMeters, s.SpaGracePeriodMinutes,
		s.IncludeSaturday, s.IncludeSunday,
		s.NotifyPush, s.NotifyEmail, s.NotifySMS,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return settings.AttendanceSettings{}, fmt.Errorf("failed to create attendance settings: %w", err)
	}

	return s, nil
}

// Update implements settings.Repository.
func (r *settingsRepository) Update(ctx context.Context, s settings.AttendanceSettings) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_settings
		SET expected_hours_per_day = $2,
		    geofence_radius_meters = $3,
		    noise_threshold_meters = $4,
		    spa_grace_period_minutes = $5,
		    include_saturday = $6,
		    include_sunday = $7,
		    notify_push = $8,
		    notify_email = $9,
		    notify_sms = $10,
		    updated_at = NOW()
		WHERE company_id = $1
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		s.CompanyID, s.ExpectedHoursPerDay, s.GeofenceRadiusMeters,
		s.NoiseThresholdMeters, s.SpaGracePeriodMinutes,
		s.IncludeSaturday, s.IncludeSunday,
		s.NotifyPush, s.NotifyEmail, s.NotifySMS,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.ErrSettingsNotFound
		}
		return fmt.Errorf("failed to update attendance settings: %w", err)
	}

	return nil
}

func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepository{db: db}
}
