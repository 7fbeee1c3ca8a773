package synclog

import (
	"context"
)

type SyncService interface {
	// RunForCompany executes one full sync cycle for a company: refresh the
	// device cache, pull new events past the cursor, store them, then
	// aggregate the affected dates
	RunForCompany(ctx context.Context, companyID string) (RunResult, error)
}

type StatusService interface {
	// Status reports pipeline health for a company
	Status(ctx context.Context, companyID string) (StatusResponse, error)

	// UnmappedDevices lists external devices producing events that resolve
	// to no employee, ranked by recent event volume
	UnmappedDevices(ctx context.Context, companyID string) ([]UnmappedDevice, error)
}
