package event

import (
	"context"
)

type EventService interface {
	// CheckIn records a manual entry event for the authenticated employee
	CheckIn(ctx context.Context, req CheckInRequest) (EventResponse, error)

	// CheckOut records a manual exit event for the authenticated employee
	CheckOut(ctx context.Context, req CheckOutRequest) (EventResponse, error)
}
