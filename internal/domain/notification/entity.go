package notification

import (
	"time"
)

// Reason identifies why a notification was raised.
type Reason string

const (
	ReasonMissingCompliancePhoto Reason = "missing_compliance_photo"
)

// Channel is a delivery transport.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// AttendanceNotification is one reminder raised against an entry event.
type AttendanceNotification struct {
	ID         string
	CompanyID  string
	EmployeeID string
	SiteID     string
	EventID    *string
	Reason     Reason
	Title      string
	Message    string
	CreatedAt  time.Time
}

// Delivery records one dispatch attempt for one channel. Channels are
// attempted independently; one failing never blocks the others.
type Delivery struct {
	ID             string
	NotificationID string
	Channel        Channel
	Delivered      bool
	Error          *string
	AttemptedAt    time.Time
}
