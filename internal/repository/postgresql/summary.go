package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/attendance-backend-go/internal/domain/summary"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type summaryRepository struct {
	db *database.DB
}

const summaryColumns = `
	id, company_id, employee_id, site_id, date, first_entry_at, last_exit_at,
	time_on_site_minutes, expected_hours, utilization_percent, status,
	entry_count, exit_count, has_compliance_photo, created_at, updated_at`

func scanSummary(row pgx.Row) (summary.AttendanceSummary, error) {
	var s summary.AttendanceSummary
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.EmployeeID, &s.SiteID, &s.Date, &s.FirstEntryAt, &s.LastExitAt,
		&s.TimeOnSiteMinutes, &s.ExpectedHours, &s.UtilizationPercent, &s.Status,
		&s.EntryCount, &s.ExitCount, &s.HasCompliancePhoto, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Upsert implements summary.Repository.
func (r *summaryRepository) Upsert(ctx context.Context, s summary.AttendanceSummary) (summary.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_summaries (
			company_id, employee_id, site_id, date, first_entry_at, last_exit_at,
			time_on_site_minutes, expected_hours, utilization_percent, status,
			entry_count, exit_count, has_compliance_photo
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (company_id, employee_id, site_id, date) DO UPDATE SET
			first_entry_at = EXCLUDED.first_entry_at,
			last_exit_at = EXCLUDED.last_exit_at,
			time_on_site_minutes = EXCLUDED.time_on_site_minutes,
			expected_hours = EXCLUDED.expected_hours,
			utilization_percent = EXCLUDED.utilization_percent,
			status = EXCLUDED.status,
			entry_count = EXCLUDED.entry_count,
			exit_count = EXCLUDED.exit_count,
			has_compliance_photo = EXCLUDED.has_compliance_photo,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.CompanyID, s.EmployeeID, s.SiteID, s.Date, s.FirstEntryAt, s.LastExitAt,
		s.TimeOnSiteMinutes, s.ExpectedHours, s.UtilizationPercent, s.Status,
		s.EntryCount, s.ExitCount, s.HasCompliancePhoto,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return summary.AttendanceSummary{}, fmt.Errorf("failed to upsert attendance summary: %w", err)
	}

	return s, nil
}

// GetByKey implements summary.Repository.
func (r *summaryRepository) GetByKey(ctx context.Context, companyID, employeeID, siteID string, date time.Time) (summary.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM attendance_summaries
		WHERE company_id = $1 AND employee_id = $2 AND site_id = $3 AND date = $4
	`

	s, err := scanSummary(q.QueryRow(ctx, query, companyID, employeeID, siteID, date.UTC().Truncate(24*time.Hour)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return summary.AttendanceSummary{}, summary.ErrSummaryNotFound
		}
		return summary.AttendanceSummary{}, fmt.Errorf("failed to get attendance summary: %w", err)
	}

	return s, nil
}

// ListByDate implements summary.Repository.
func (r *summaryRepository) ListByDate(ctx context.Context, companyID string, date time.Time) ([]summary.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM attendance_summaries
		WHERE company_id = $1 AND date = $2
		ORDER BY employee_id, site_id
	`

	rows, err := q.Query(ctx, query, companyID, date.UTC().Truncate(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance summaries: %w", err)
	}
	defer rows.Close()

	var summaries []summary.AttendanceSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func NewSummaryRepository(db *database.DB) summary.Repository {
	return &summaryRepository{db: db}
}
