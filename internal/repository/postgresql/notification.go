package postgresql

import (
	"context"
	"fmt"

	"github.com/sitecrew/attendance-backend-go/internal/domain/notification"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

// Create implements notification.Repository.
func (r *notificationRepository) Create(ctx context.Context, n notification.AttendanceNotification) (notification.AttendanceNotification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_notifications (
			company_id, employee_id, site_id, event_id, reason, title, message
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		n.CompanyID, n.EmployeeID, n.SiteID, n.EventID, n.Reason, n.Title, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return notification.AttendanceNotification{}, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

// RecordDelivery implements notification.Repository.
func (r *notificationRepository) RecordDelivery(ctx context.Context, d notification.Delivery) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notification_deliveries (
			notification_id, channel, delivered, error, attempted_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	if _, err := q.Exec(ctx, query, d.NotificationID, d.Channel, d.Delivered, d.Error, d.AttemptedAt); err != nil {
		return fmt.Errorf("failed to record notification delivery: %w", err)
	}

	return nil
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}
