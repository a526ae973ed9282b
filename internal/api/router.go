package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"waste-route-service/internal/api/handlers"
	"waste-route-service/internal/ports"
)

// Deps are the collaborators the HTTP layer needs. Metrics is optional; when
// nil no /metrics endpoint is mounted.
type Deps struct {
	Requests ports.ServiceRequestRepository
	Vehicles ports.VehicleRepository
	Planner  handlers.Planner

	// PlanLimiter throttles POST /plans; nil disables throttling.
	PlanLimiter *rate.Limiter

	Metrics     prometheus.Gatherer
	MetricsPath string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	reqHandler := &handlers.RequestHandler{Repo: d.Requests}
	vehicleHandler := &handlers.VehicleHandler{Repo: d.Vehicles}
	planHandler := &handlers.PlanHandler{Service: d.Planner}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("GET /requests", reqHandler.List)
	mux.HandleFunc("GET /vehicles", vehicleHandler.List)
	mux.HandleFunc("POST /plans", rateLimit(d.PlanLimiter, planHandler.Create))
	mux.HandleFunc("GET /plans/{id}", planHandler.Get)
	mux.HandleFunc("GET /plans/{id}/routes/{routeID}/geojson", planHandler.RouteGeoJSON)
	mux.HandleFunc("POST /forecast", planHandler.Forecast)

	if d.Metrics != nil {
		path := d.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))
	}

	return requestIDMiddleware(loggingMiddleware(mux))
}
