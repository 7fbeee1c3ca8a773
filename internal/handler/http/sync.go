package http

import (
	"net/http"

	"github.com/sitecrew/attendance-backend-go/internal/domain/synclog"
	"github.com/sitecrew/attendance-backend-go/internal/handler/http/response"
)

type SyncHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	UnmappedDevices(w http.ResponseWriter, r *http.Request)
	Run(w http.ResponseWriter, r *http.Request)
}

type syncHandlerImpl struct {
	syncService   synclog.SyncService
	statusService synclog.StatusService
}

func NewSyncHandler(syncService synclog.SyncService, statusService synclog.StatusService) SyncHandler {
	return &syncHandlerImpl{
		syncService:   syncService,
		statusService: statusService,
	}
}

// Status implements SyncHandler.
func (h *syncHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.statusService.Status(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UnmappedDevices implements SyncHandler.
func (h *syncHandlerImpl) UnmappedDevices(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.statusService.UnmappedDevices(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Run triggers one sync cycle outside the schedule.
func (h *syncHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.syncService.RunForCompany(r.Context(), companyID)
	if err != nil {
		response.ServiceUnavailable(w, "Sync run failed: "+err.Error())
		return
	}

	response.SuccessWithMessage(w, "Sync completed", result)
}
