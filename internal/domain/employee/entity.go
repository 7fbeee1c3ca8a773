package employee

import (
	"time"
)

// Employee is the internal worker record the pipeline resolves external
// device identifiers against. Employee CRUD is owned elsewhere; this system
// only reads.
type Employee struct {
	ID               string
	CompanyID        string
	FullName         string
	Email            *string
	Phone            *string
	ExternalDeviceID *int64
	DeletedAt        *time.Time
}
