package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitecrew/attendance-backend-go/internal/domain/employee"
	"github.com/sitecrew/attendance-backend-go/internal/domain/notification"
	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
	"github.com/sitecrew/attendance-backend-go/internal/domain/site"
)

type NotificationServiceImpl struct {
	notification.Repository
	photoChecker    notification.PhotoChecker
	employeeRepo    employee.Repository
	siteRepo        site.Repository
	settingsService settings.SettingsService
	dispatcher      notification.Dispatcher
}

// TriggerMissingPhotoReminder implements notification.NotificationService.
func (n *NotificationServiceImpl) TriggerMissingPhotoReminder(ctx context.Context, in notification.TriggerInput) error {
	companySettings, err := n.settingsService.GetOrCreate(ctx, in.CompanyID)
	if err != nil {
		return err
	}
	if !companySettings.NotifyPush && !companySettings.NotifyEmail && !companySettings.NotifySMS {
		return nil
	}

	hasPhoto, err := n.photoChecker.HasCompliancePhoto(ctx, in.CompanyID, in.EmployeeID, in.SiteID, in.Date)
	if err != nil {
		return fmt.Errorf("failed to check compliance photo: %w", err)
	}
	if hasPhoto {
		return nil
	}

	emp, err := n.employeeRepo.GetByID(ctx, in.EmployeeID, in.CompanyID)
	if err != nil {
		return err
	}

	workSite, err := n.siteRepo.GetByID(ctx, in.SiteID, in.CompanyID)
	if err != nil {
		return err
	}

	dateStr := in.Date.UTC().Format("2006-01-02")
	created, err := n.Repository.Create(ctx, notification.AttendanceNotification{
		CompanyID:  in.CompanyID,
		EmployeeID: in.EmployeeID,
		SiteID:     in.SiteID,
		EventID:    in.EventID,
		Reason:     notification.ReasonMissingCompliancePhoto,
		Title:      "Attendance photo required",
		Message:    fmt.Sprintf("Please take your attendance photo at %s for %s.", workSite.Name, dateStr),
	})
	if err != nil {
		return err
	}

	payload := notification.Payload{
		Notification: created,
		Employee:     emp,
		SiteName:     workSite.Name,
		Date:         dateStr,
	}

	// Channels are independent; a failing provider never blocks the rest.
	channels := []struct {
		channel notification.Channel
		enabled bool
		send    func(context.Context, notification.Payload) error
	}{
		{notification.ChannelPush, companySettings.NotifyPush, n.dispatcher.SendPush},
		{notification.ChannelEmail, companySettings.NotifyEmail, n.dispatcher.SendEmail},
		{notification.ChannelSMS, companySettings.NotifySMS, n.dispatcher.SendSMS},
	}

	for _, c := range channels {
		if !c.enabled {
			continue
		}

		sendErr := c.send(ctx, payload)
		delivery := notification.Delivery{
			NotificationID: created.ID,
			Channel:        c.channel,
			Delivered:      sendErr == nil,
			AttemptedAt:    time.Now().UTC(),
		}
		if sendErr != nil {
			msg := sendErr.Error()
			delivery.Error = &msg
			slog.Warn("Notification channel delivery failed",
				"channel", c.channel,
				"notification_id", created.ID,
				"error", sendErr,
			)
		}

		if err := n.Repository.RecordDelivery(ctx, delivery); err != nil {
			slog.Error("Failed to record notification delivery",
				"channel", c.channel,
				"notification_id", created.ID,
				"error", err,
			)
		}
	}

	return nil
}

func NewNotificationService(
	notificationRepo notification.Repository,
	photoChecker notification.PhotoChecker,
	employeeRepo employee.Repository,
	siteRepo site.Repository,
	settingsService settings.SettingsService,
	dispatcher notification.Dispatcher,
) notification.NotificationService {
	return &NotificationServiceImpl{
		Repository:      notificationRepo,
		photoChecker:    photoChecker,
		employeeRepo:    employeeRepo,
		siteRepo:        siteRepo,
		settingsService: settingsService,
		dispatcher:      dispatcher,
	}
}
