package handlers

import (
	"net/http"
	"strconv"

	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/platform/apperr"
)

// defaultForecastDays is the stored-history window used when the body names none.
const defaultForecastDays = 90

// Forecast predicts next week's demand from posted or stored history.
func (h *PlanHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req dto.ForecastRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	history, idx, err := req.Records()
	if err != nil {
		writeAppError(w, r, "forecast", apperr.InvalidInput("history["+strconv.Itoa(idx)+"].date", "must be YYYY-MM-DD"))
		return
	}

	days := req.Days
	if days == 0 {
		days = defaultForecastDays
	}

	f, err := h.Service.Forecast(r.Context(), history, days)
	if err != nil {
		writeAppError(w, r, "forecast", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromForecast(f))
}
