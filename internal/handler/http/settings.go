package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sitecrew/attendance-backend-go/internal/domain/settings"
	"github.com/sitecrew/attendance-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ListBankHolidays(w http.ResponseWriter, r *http.Request)
	AddBankHoliday(w http.ResponseWriter, r *http.Request)
	RemoveBankHoliday(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{
		settingsService: settingsService,
	}
}

type settingsResponse struct {
	ExpectedHoursPerDay   string `json:"expected_hours_per_day"`
	GeofenceRadiusMeters  int    `json:"geofence_radius_meters"`
	NoiseThresholdMeters  int    `json:"noise_threshold_meters"`
	SpaGracePeriodMinutes int    `json:"spa_grace_period_minutes"`
	IncludeSaturday       bool   `json:"include_saturday"`
	IncludeSunday         bool   `json:"include_sunday"`
	NotifyPush            bool   `json:"notify_push"`
	NotifyEmail           bool   `json:"notify_email"`
	NotifySMS             bool   `json:"notify_sms"`
}

func toSettingsResponse(s settings.AttendanceSettings) settingsResponse {
	return settingsResponse{
		ExpectedHoursPerDay:   s.ExpectedHoursPerDay.StringFixed(2),
		GeofenceRadiusMeters:  s.GeofenceRadiusMeters,
		NoiseThresholdMeters:  s.NoiseThresholdMeters,
		SpaGracePeriodMinutes: s.SpaGracePeriodMinutes,
		IncludeSaturday:       s.IncludeSaturday,
		IncludeSunday:         s.IncludeSunday,
		NotifyPush:            s.NotifyPush,
		NotifyEmail:           s.NotifyEmail,
		NotifySMS:             s.NotifySMS,
	}
}

type bankHolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// Get implements SettingsHandler.
func (h *settingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	result, err := h.settingsService.GetOrCreate(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toSettingsResponse(result))
}

// Update implements SettingsHandler.
func (h *settingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req settings.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode settings update", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.Update(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated", toSettingsResponse(result))
}

// ListBankHolidays implements SettingsHandler.
func (h *settingsHandlerImpl) ListBankHolidays(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		year = parsed
	}

	holidays, err := h.settingsService.ListBankHolidays(r.Context(), companyID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]bankHolidayResponse, 0, len(holidays))
	for _, holiday := range holidays {
		result = append(result, bankHolidayResponse{
			ID:   holiday.ID,
			Date: holiday.Date.Format("2006-01-02"),
			Name: holiday.Name,
		})
	}

	response.Success(w, result)
}

// AddBankHoliday implements SettingsHandler.
func (h *settingsHandlerImpl) AddBankHoliday(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req settings.AddBankHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode bank holiday request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	holiday, err := h.settingsService.AddBankHoliday(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Bank holiday added", bankHolidayResponse{
		ID:   holiday.ID,
		Date: holiday.Date.Format("2006-01-02"),
		Name: holiday.Name,
	})
}

// RemoveBankHoliday implements SettingsHandler.
func (h *settingsHandlerImpl) RemoveBankHoliday(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.settingsService.RemoveBankHoliday(r.Context(), companyID, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Bank holiday removed", nil)
}
