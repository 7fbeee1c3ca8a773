package synclog

// RunResult reports what one sync cycle did.
type RunResult struct {
	SyncLogID         string `json:"sync_log_id"`
	RecordsProcessed  int    `json:"records_processed"`
	RecordsCreated    int    `json:"records_created"`
	RecordsSkipped    int    `json:"records_skipped"`
	DatesAggregated   int    `json:"dates_aggregated"`
	DevicesRefreshed  int    `json:"devices_refreshed"`
	LastEventStamp    string `json:"last_event_timestamp,omitempty"`
	AggregationErrors int    `json:"aggregation_errors"`
}

type SyncLogResponse struct {
	ID                 string  `json:"id"`
	SyncStarted        string  `json:"sync_started"`
	SyncCompleted      *string `json:"sync_completed,omitempty"`
	RecordsProcessed   int     `json:"records_processed"`
	RecordsCreated     int     `json:"records_created"`
	RecordsSkipped     int     `json:"records_skipped"`
	LastEventTimestamp *string `json:"last_event_timestamp,omitempty"`
	ErrorMessage       *string `json:"error_message,omitempty"`
}

// StatusResponse is the operator health report. Healthy means the last
// successful run completed within the staleness window.
type StatusResponse struct {
	Healthy           bool              `json:"healthy"`
	LastSuccessfulRun *string           `json:"last_successful_run,omitempty"`
	Cursor            *string           `json:"cursor,omitempty"`
	Last24Hours       CountsResponse    `json:"last_24_hours"`
	RecentRuns        []SyncLogResponse `json:"recent_runs"`
	DevicesOnline     int               `json:"devices_online"`
	DevicesTotal      int               `json:"devices_total"`
}

type CountsResponse struct {
	Runs             int `json:"runs"`
	Succeeded        int `json:"succeeded"`
	Failed           int `json:"failed"`
	RecordsProcessed int `json:"records_processed"`
	RecordsCreated   int `json:"records_created"`
	RecordsSkipped   int `json:"records_skipped"`
}

// UnmappedDevice is an external device producing events that resolve to no
// employee.
type UnmappedDevice struct {
	ExternalDeviceID   int64   `json:"external_device_id"`
	PlatformIdentifier string  `json:"platform_identifier"`
	Platform           *string `json:"platform,omitempty"`
	Model              *string `json:"model,omitempty"`
	LastSeenAt         *string `json:"last_seen_at,omitempty"`
	Online             bool    `json:"online"`
	RecentEventCount   int64   `json:"recent_event_count"`
}
