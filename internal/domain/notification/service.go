package notification

import (
	"context"
	"time"
)

// TriggerInput identifies the entry event that may need a compliance photo
// reminder.
type TriggerInput struct {
	CompanyID  string
	EmployeeID string
	SiteID     string
	EventID    *string
	Date       time.Time
}

type NotificationService interface {
	// TriggerMissingPhotoReminder raises a reminder if no compliance photo
	// exists yet for the employee at the site on the event's date. Each
	// enabled channel is attempted independently.
	TriggerMissingPhotoReminder(ctx context.Context, in TriggerInput) error
}
