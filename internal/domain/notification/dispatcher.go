package notification

import (
	"context"

	"github.com/sitecrew/attendance-backend-go/internal/domain/employee"
)

// Payload carries everything a channel needs to render one reminder.
type Payload struct {
	Notification AttendanceNotification
	Employee     employee.Employee
	SiteName     string
	Date         string // YYYY-MM-DD
}

// Dispatcher is the outbound delivery contract. Implementations wrap the
// external push/email/SMS providers; each call is one attempt with no retry
// scheduling here.
type Dispatcher interface {
	SendPush(ctx context.Context, p Payload) error
	SendEmail(ctx context.Context, p Payload) error
	SendSMS(ctx context.Context, p Payload) error
}
