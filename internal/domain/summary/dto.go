package summary

// ProcessResult reports what one aggregation pass did.
type ProcessResult struct {
	Date              string `json:"date"`
	EventsProcessed   int    `json:"events_processed"`
	SummariesUpserted int    `json:"summaries_upserted"`
}

type SummaryResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	SiteID             string  `json:"site_id"`
	Date               string  `json:"date"`
	FirstEntryAt       *string `json:"first_entry_at,omitempty"`
	LastExitAt         *string `json:"last_exit_at,omitempty"`
	TimeOnSiteMinutes  int     `json:"time_on_site_minutes"`
	ExpectedHours      string  `json:"expected_hours"`
	UtilizationPercent string  `json:"utilization_percent"`
	Status             string  `json:"status"`
	EntryCount         int     `json:"entry_count"`
	ExitCount          int     `json:"exit_count"`
	HasCompliancePhoto bool    `json:"has_compliance_photo"`
}
