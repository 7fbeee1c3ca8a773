package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/sitecrew/attendance-backend-go/internal/domain/notification"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type compliancePhotoRepository struct {
	db *database.DB
}

// HasCompliancePhoto implements notification.PhotoChecker against the
// site_photo_attendances table owned by the photo upload flow.
func (r *compliancePhotoRepository) HasCompliancePhoto(ctx context.Context, companyID, employeeID, siteID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	dayStart := date.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM site_photo_attendances
			WHERE company_id = $1
			  AND employee_id = $2
			  AND site_id = $3
			  AND taken_at >= $4 AND taken_at < $5
			  AND deleted_at IS NULL
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, companyID, employeeID, siteID, dayStart, dayEnd).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check compliance photo: %w", err)
	}

	return exists, nil
}

func NewCompliancePhotoRepository(db *database.DB) notification.PhotoChecker {
	return &compliancePhotoRepository{db: db}
}
