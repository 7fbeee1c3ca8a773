package notification

import (
	"context"
	"time"
)

// Repository defines data access methods for notifications and their
// per-channel delivery records.
type Repository interface {
	Create(ctx context.Context, n AttendanceNotification) (AttendanceNotification, error)

	RecordDelivery(ctx context.Context, d Delivery) error
}

// PhotoChecker is the outbound collaborator contract for the compliance
// photo store (SitePhotoAttendance), owned outside this pipeline.
type PhotoChecker interface {
	// HasCompliancePhoto reports whether a photo exists for the employee at
	// the site on the given UTC calendar date
	HasCompliancePhoto(ctx context.Context, companyID, employeeID, siteID string, date time.Time) (bool, error)
}
