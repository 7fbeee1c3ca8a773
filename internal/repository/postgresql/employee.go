package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sitecrew/attendance-backend-go/internal/domain/employee"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

// GetByID implements employee.Repository.
func (r *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, full_name, email, phone, external_device_id, deleted_at
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&e.ID, &e.CompanyID, &e.FullName, &e.Email, &e.Phone, &e.ExternalDeviceID, &e.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// MapByDeviceID implements employee.Repository.
func (r *employeeRepository) MapByDeviceID(ctx context.Context, companyID string) (map[int64]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, full_name, email, phone, external_device_id, deleted_at
		FROM employees
		WHERE company_id = $1
		  AND external_device_id IS NOT NULL
		  AND deleted_at IS NULL
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to map employees by device id: %w", err)
	}
	defer rows.Close()

	employees := make(map[int64]employee.Employee)
	for rows.Next() {
		var e employee.Employee
		err := rows.Scan(
			&e.ID, &e.CompanyID, &e.FullName, &e.Email, &e.Phone, &e.ExternalDeviceID, &e.DeletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees[*e.ExternalDeviceID] = e
	}

	return employees, rows.Err()
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}
