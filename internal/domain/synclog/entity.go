package synclog

import (
	"time"
)

// GeofenceSyncLog is the append-only audit row for one sync run. The cursor
// for the next run is the LastEventTimestamp of the most recent row with
// SyncCompleted set and no error.
type GeofenceSyncLog struct {
	ID                 string
	CompanyID          string
	SyncStarted        time.Time
	SyncCompleted      *time.Time
	RecordsProcessed   int
	RecordsCreated     int
	RecordsSkipped     int
	LastEventID        *int64
	LastEventTimestamp *time.Time
	ErrorMessage       *string
}

// Succeeded reports whether the run completed without error.
func (l GeofenceSyncLog) Succeeded() bool {
	return l.SyncCompleted != nil && l.ErrorMessage == nil
}

// Counts aggregates run outcomes over a window, for the status endpoint.
type Counts struct {
	Runs             int
	Succeeded        int
	Failed           int
	RecordsProcessed int
	RecordsCreated   int
	RecordsSkipped   int
}
