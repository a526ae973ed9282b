// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated registry served by the API.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OpDuration times internal operations wrapped with obs.Time.
	OpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "operation_duration_seconds", Help: "Duration of internal operations.", Buckets: prometheus.DefBuckets},
		[]string{"op", "outcome"},
	)

	Optimizations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_optimizations_total", Help: "Optimization runs by outcome."},
		[]string{"outcome"},
	)
	RoutesPlanned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "routes_planned_total", Help: "Non-empty routes produced by the optimizer."},
	)
	UnmatchedRoutes = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "routes_unmatched_total", Help: "Routes left without a vehicle."},
	)
	ExcludedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "records_excluded_total", Help: "Records excluded from optimization."},
		[]string{"resource", "code"},
	)
	PlanCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plan_cache_lookups_total", Help: "Plan cache lookups by result."},
		[]string{"result"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call repeatedly.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(
			HTTPRequests,
			HTTPDuration,
			OpDuration,
			Optimizations,
			RoutesPlanned,
			UnmatchedRoutes,
			ExcludedRecords,
			PlanCacheLookups,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}
