package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"waste-route-service/internal/adapters/export"
	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/apperr"
	"waste-route-service/internal/services"
)

// Planner is the slice of the plan service the HTTP layer depends on.
type Planner interface {
	Plan(ctx context.Context, in services.PlanInput) (*domain.OptimizationResult, error)
	GetPlan(ctx context.Context, id string) (*domain.OptimizationResult, error)
	Forecast(ctx context.Context, history []domain.DemandRecord, days int) (domain.DemandForecast, error)
}

type PlanHandler struct {
	Service Planner
}

// Create runs the optimizer on the posted input, or on stored data for
// whatever the body omits.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	requests, vehicles, depot := req.Input()
	res, err := h.Service.Plan(r.Context(), services.PlanInput{
		Requests:    requests,
		Vehicles:    vehicles,
		Depot:       depot,
		Constraints: req.Constraints,
	})
	if err != nil {
		writeAppError(w, r, "create plan", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.FromPlan(res))
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.GetPlan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, r, "get plan", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromPlan(res))
}

// RouteGeoJSON exports one route of a stored plan for map tools.
func (h *PlanHandler) RouteGeoJSON(w http.ResponseWriter, r *http.Request) {
	routeID, err := strconv.Atoi(r.PathValue("routeID"))
	if err != nil {
		writeAppError(w, r, "route geojson", apperr.InvalidInput("routeID", "must be an integer"))
		return
	}

	res, err := h.Service.GetPlan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, r, "route geojson", err)
		return
	}

	route, ok := res.Route(routeID)
	if !ok {
		writeAppError(w, r, "route geojson", apperr.NotFound("route", r.PathValue("routeID")))
		return
	}

	writeGeoJSON(w, r, export.RouteGeoJSON(route))
}

func writeGeoJSON(w http.ResponseWriter, r *http.Request, fc export.FeatureCollection) {
	b, err := json.Marshal(fc)
	if err != nil {
		writeAppError(w, r, "route geojson", err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
