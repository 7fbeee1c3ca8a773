package summary

import (
	"context"
	"time"
)

type SummaryService interface {
	// ProcessDate recomputes attendance summaries for every employee/site
	// pair with unprocessed events on the given UTC calendar date. Safe to
	// re-run; summaries are keyed and upserted.
	ProcessDate(ctx context.Context, companyID string, date time.Time) (ProcessResult, error)

	// ListByDate returns the computed summaries for a company and date
	ListByDate(ctx context.Context, companyID string, date time.Time) ([]SummaryResponse, error)
}
