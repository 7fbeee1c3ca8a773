package http

import (
	"net/http"
	"time"

	"github.com/sitecrew/attendance-backend-go/internal/domain/summary"
	"github.com/sitecrew/attendance-backend-go/internal/handler/http/response"
	"github.com/sitecrew/attendance-backend-go/internal/pkg/validator"
)

type SummaryHandler interface {
	ListByDate(w http.ResponseWriter, r *http.Request)
	ProcessDate(w http.ResponseWriter, r *http.Request)
}

type summaryHandlerImpl struct {
	summaryService summary.SummaryService
}

func NewSummaryHandler(summaryService summary.SummaryService) SummaryHandler {
	return &summaryHandlerImpl{
		summaryService: summaryService,
	}
}

func dateFromQuery(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		// Default to today (UTC)
		return time.Now().UTC().Truncate(24 * time.Hour), true
	}
	return validator.IsValidDate(raw)
}

// ListByDate implements SummaryHandler.
func (h *summaryHandlerImpl) ListByDate(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	date, ok := dateFromQuery(r)
	if !ok {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
		return
	}

	result, err := h.summaryService.ListByDate(r.Context(), companyID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ProcessDate implements SummaryHandler.
func (h *summaryHandlerImpl) ProcessDate(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	date, ok := dateFromQuery(r)
	if !ok {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
		return
	}

	result, err := h.summaryService.ProcessDate(r.Context(), companyID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Aggregation completed", result)
}
