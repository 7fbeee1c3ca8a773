package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/sitecrew/attendance-backend-go/internal/handler/http/middleware"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	eventHandler EventHandler,
	summaryHandler SummaryHandler,
	syncHandler SyncHandler,
	settingsHandler SettingsHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", eventHandler.CheckIn)
				r.Post("/check-out", eventHandler.CheckOut)
				r.Get("/summaries", summaryHandler.ListByDate)
			})

			// Operator-only pipeline controls
			r.Group(func(r chi.Router) {
				r.Use(middleware.OperatorOnly)

				r.Route("/sync", func(r chi.Router) {
					r.Get("/status", syncHandler.Status)
					r.Get("/unmapped-devices", syncHandler.UnmappedDevices)
					r.Post("/run", syncHandler.Run)
				})

				r.Post("/attendance/process", summaryHandler.ProcessDate)

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", settingsHandler.Get)
					r.Put("/", settingsHandler.Update)
					r.Route("/bank-holidays", func(r chi.Router) {
						r.Get("/", settingsHandler.ListBankHolidays)
						r.Post("/", settingsHandler.AddBankHoliday)
						r.Delete("/{id}", settingsHandler.RemoveBankHoliday)
					})
				})
			})
		})
	})

	return r
}
