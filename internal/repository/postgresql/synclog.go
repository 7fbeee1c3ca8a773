package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/attendance-backend-go/internal/domain/synclog"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type syncLogRepository struct {
	db *database.DB
}

const syncLogColumns = `
	id, company_id, sync_started, sync_completed,
	records_processed, records_created, records_skipped,
	last_event_id, last_event_timestamp, error_message`

func scanSyncLog(row pgx.Row) (synclog.GeofenceSyncLog, error) {
	var l synclog.GeofenceSyncLog
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.SyncStarted, &l.SyncCompleted,
		&l.RecordsProcessed, &l.RecordsCreated, &l.RecordsSkipped,
		&l.LastEventID, &l.LastEventTimestamp, &l.ErrorMessage,
	)
	return l, err
}

// Create implements synclog.Repository.
func (r *syncLogRepository) Create(ctx context.Context, log synclog.GeofenceSyncLog) (synclog.GeofenceSyncLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO geofence_sync_logs (company_id, sync_started)
		VALUES ($1, $2)
		RETURNING id
	`

	err := q.QueryRow(ctx, query, log.CompanyID, log.SyncStarted).Scan(&log.ID)
	if err != nil {
		return synclog.GeofenceSyncLog{}, fmt.Errorf("failed to create sync log: %w", err)
	}

	return log, nil
}

// Update implements synclog.Repository.
func (r *syncLogRepository) Update(ctx context.Context, log synclog.GeofenceSyncLog) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE geofence_sync_logs
		SET sync_completed = $2,
		    records_processed = $3,
		    records_created = $4,
		    records_skipped = $5,
		    last_event_id = $6,
		    last_event_timestamp = $7,
		    error_message = $8
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		log.ID, log.SyncCompleted,
		log.RecordsProcessed, log.RecordsCreated, log.RecordsSkipped,
		log.LastEventID, log.LastEventTimestamp, log.ErrorMessage,
	).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("sync log not found: %w", err)
		}
		return fmt.Errorf("failed to update sync log: %w", err)
	}

	return nil
}

// LastSuccessful implements synclog.Repository.
func (r *syncLogRepository) LastSuccessful(ctx context.Context, companyID string) (*synclog.GeofenceSyncLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + syncLogColumns + `
		FROM geofence_sync_logs
		WHERE company_id = $1
		  AND sync_completed IS NOT NULL
		  AND error_message IS NULL
		ORDER BY sync_started DESC
		LIMIT 1
	`

	l, err := scanSyncLog(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // never synced successfully
		}
		return nil, fmt.Errorf("failed to get last successful sync log: %w", err)
	}

	return &l, nil
}

// ListRecent implements synclog.Repository.
func (r *syncLogRepository) ListRecent(ctx context.Context, companyID string, limit int) ([]synclog.GeofenceSyncLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + syncLogColumns + `
		FROM geofence_sync_logs
		WHERE company_id = $1
		ORDER BY sync_started DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}
	defer rows.Close()

	var logs []synclog.GeofenceSyncLog
	for rows.Next() {
		l, err := scanSyncLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

// CountsSince implements synclog.Repository.
func (r *syncLogRepository) CountsSince(ctx context.Context, companyID string, since time.Time) (synclog.Counts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE sync_completed IS NOT NULL AND error_message IS NULL),
		       COUNT(*) FILTER (WHERE error_message IS NOT NULL),
		       COALESCE(SUM(records_processed), 0),
		       COALESCE(SUM(records_created), 0),
		       COALESCE(SUM(records_skipped), 0)
		FROM geofence_sync_logs
		WHERE company_id = $1 AND sync_started > $2
	`

	var c synclog.Counts
	err := q.QueryRow(ctx, query, companyID, since).Scan(
		&c.Runs, &c.Succeeded, &c.Failed,
		&c.RecordsProcessed, &c.RecordsCreated, &c.RecordsSkipped,
	)
	if err != nil {
		return synclog.Counts{}, fmt.Errorf("failed to count sync runs: %w", err)
	}

	return c, nil
}

func NewSyncLogRepository(db *database.DB) synclog.Repository {
	return &syncLogRepository{db: db}
}
