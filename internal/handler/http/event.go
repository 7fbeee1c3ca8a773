package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sitecrew/attendance-backend-go/internal/domain/event"
	"github.com/sitecrew/attendance-backend-go/internal/handler/http/response"
)

type EventHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	eventService event.EventService
}

func NewEventHandler(eventService event.EventService) EventHandler {
	return &eventHandlerImpl{
		eventService: eventService,
	}
}

// CheckIn implements EventHandler.
func (h *eventHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req event.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode check-in request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.eventService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-in recorded", result)
}

// CheckOut implements EventHandler.
func (h *eventHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req event.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode check-out request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.eventService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-out recorded", result)
}
