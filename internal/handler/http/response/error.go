package response

import (
	"errors"
	"net/http"

	"github.com/sitecrew/attendance-backend-go/internal/domain/employee"
	"github.com/sitecrew/attendance-backend-go/internal/domain/event"
	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
	"github.com/sitecrew/attendance-backend-go/internal/domain/site"
	"github.com/sitecrew/attendance-backend-go/internal/domain/summary"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Event domain errors
	case errors.Is(err, event.ErrOutsideGeofence):
		BadRequest(w, "You are outside the site geofence", nil)
	case errors.Is(err, event.ErrNoActiveSites):
		BadRequest(w, "No active sites configured", nil)
	case errors.Is(err, event.ErrDuplicateEvent):
		Conflict(w, "An identical event was already recorded")
	case errors.Is(err, event.ErrEventNotFound):
		NotFound(w, "Attendance event not found")

	// Lookup errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")
	case errors.Is(err, summary.ErrSummaryNotFound):
		NotFound(w, "Attendance summary not found")

	// Settings domain errors
	case errors.Is(err, settings.ErrSettingsNotFound):
		NotFound(w, "Attendance settings not found")
	case errors.Is(err, settings.ErrBankHolidayNotFound):
		NotFound(w, "Bank holiday not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
