package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type bankHolidayRepository struct {
	db *database.DB
}

// ListByCompany implements settings.BankHolidayRepository.
func (r *bankHolidayRepository) ListByCompany(ctx context.Context, companyID string, from, to time.Time) ([]settings.BankHoliday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, date, name, created_at
		FROM bank_holidays
		WHERE company_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, companyID,
		from.UTC().Truncate(24*time.Hour), to.UTC().Truncate(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to list bank holidays: %w", err)
	}
	defer rows.Close()

	var holidays []settings.BankHoliday
	for rows.Next() {
		var h settings.BankHoliday
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bank holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// Create implements settings.BankHolidayRepository.
func (r *bankHolidayRepository) Create(ctx context.Context, h settings.BankHoliday) (settings.BankHoliday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO bank_holidays (company_id, date, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, date) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, h.CompanyID, h.Date.UTC().Truncate(24*time.Hour), h.Name).
		Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return settings.BankHoliday{}, fmt.Errorf("failed to create bank holiday: %w", err)
	}

	return h, nil
}

// Delete implements settings.BankHolidayRepository.
func (r *bankHolidayRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM bank_holidays WHERE id = $1 AND company_id = $2`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete bank holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return settings.ErrBankHolidayNotFound
	}

	return nil
}

func NewBankHolidayRepository(db *database.DB) settings.BankHolidayRepository {
	return &bankHolidayRepository{db: db}
}
