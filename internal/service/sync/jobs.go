package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitecrew/attendance-backend-go/internal/config"
	"github.com/sitecrew/attendance-backend-go/internal/domain/summary"
	"github.com/sitecrew/attendance-backend-go/internal/domain/synclog"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/cron"
)

// RegisterJobs wires the background pipeline onto the scheduler: the
// periodic geofence sync and a nightly aggregation pass that catches days
// whose per-sync aggregation failed.
func RegisterJobs(
	scheduler *cron.Scheduler,
	syncService synclog.SyncService,
	summaryService summary.SummaryService,
	cfg config.SyncConfig,
) {
	if !cfg.Enabled {
		slog.Info("Cron: geofence sync disabled by configuration")
		return
	}

	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	startupDelay := time.Duration(cfg.StartupDelaySeconds) * time.Second

	scheduler.AddJob("geofence-sync", interval, startupDelay, func(ctx context.Context) error {
		// Companies sync sequentially; one failing tenant must not starve
		// the rest, so errors are logged and the loop continues.
		var lastErr error
		for _, companyID := range cfg.CompanyIDs {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if _, err := syncService.RunForCompany(ctx, companyID); err != nil {
				slog.Error("Cron: geofence sync failed", "company_id", companyID, "error", err)
				lastErr = err
			}
		}
		return lastErr
	})

	scheduler.AddJob("nightly-aggregation", 24*time.Hour, untilNextNightly(time.Now().UTC()), func(ctx context.Context) error {
		yesterday := time.Now().UTC().AddDate(0, 0, -1)
		var lastErr error
		for _, companyID := range cfg.CompanyIDs {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if _, err := summaryService.ProcessDate(ctx, companyID, yesterday); err != nil {
				slog.Error("Cron: nightly aggregation failed", "company_id", companyID, "error", err)
				lastErr = err
			}
		}
		return lastErr
	})
}

// untilNextNightly returns the wait until the next 02:00 UTC, when the
// fallback aggregation sweeps the previous day.
func untilNextNightly(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
