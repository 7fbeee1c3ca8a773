package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sitecrew/attendance-backend-go/internal/config"
	"github.com/sitecrew/attendance-backend-go/internal/eventstore"
	appHTTP "github.com/sitecrew/attendance-backend-go/internal/handler/http"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/cron"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/database"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/email"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/jwt"
	"github.com/sitecrew/attendance-backend-go/internal/repository/postgresql"
	checkinService "github.com/sitecrew/attendance-backend-go/internal/service/checkin"
	geofenceService "github.com/sitecrew/attendance-backend-go/internal/service/geofence"
	notifierService "github.com/sitecrew/attendance-backend-go/internal/service/notifier"
	settingsService "github.com/sitecrew/attendance-backend-go/internal/service/settings"
	statusService "github.com/sitecrew/attendance-backend-go/internal/service/status"
	syncService "github.com/sitecrew/attendance-backend-go/internal/service/sync"
	timesheetService "github.com/sitecrew/attendance-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	storePool, err := database.NewReadOnlyPool(cfg.EventStoreURL())
	if err != nil {
		log.Fatal("Failed to connect to event store: ", err)
	}
	defer storePool.Close()
	store := eventstore.NewClient(storePool)

	eventRepo := postgresql.NewEventRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)
	syncLogRepo := postgresql.NewSyncLogRepository(db)
	deviceRepo := postgresql.NewDeviceStatusRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	bankHolidayRepo := postgresql.NewBankHolidayRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	photoChecker := postgresql.NewCompliancePhotoRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	geofenceSvc := geofenceService.NewGeofenceService()
	settingsSvc := settingsService.NewSettingsService(settingsRepo, bankHolidayRepo)
	dispatcher := notifierService.NewChannelDispatcher(emailSvc)
	notificationSvc := notifierService.NewNotificationService(
		notificationRepo,
		photoChecker,
		employeeRepo,
		siteRepo,
		settingsSvc,
		dispatcher,
	)
	summarySvc := timesheetService.NewSummaryService(
		eventRepo,
		summaryRepo,
		bankHolidayRepo,
		photoChecker,
		settingsSvc,
	)
	eventSvc := checkinService.NewEventService(
		eventRepo,
		siteRepo,
		settingsSvc,
		geofenceSvc,
		notificationSvc,
	)
	syncSvc := syncService.NewSyncService(
		store,
		syncLogRepo,
		eventRepo,
		employeeRepo,
		siteRepo,
		deviceRepo,
		settingsSvc,
		geofenceSvc,
		summarySvc,
		notificationSvc,
		cfg.Sync,
	)
	statusSvc := statusService.NewStatusService(syncLogRepo, deviceRepo, employeeRepo, store)

	scheduler := cron.NewScheduler()
	syncService.RegisterJobs(scheduler, syncSvc, summarySvc, cfg.Sync)
	scheduler.Start()
	defer scheduler.Stop()

	eventHandler := appHTTP.NewEventHandler(eventSvc)
	summaryHandler := appHTTP.NewSummaryHandler(summarySvc)
	syncHandler := appHTTP.NewSyncHandler(syncSvc, statusSvc)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)

	router := appHTTP.NewRouter(jwtSvc, eventHandler, summaryHandler, syncHandler, settingsHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
