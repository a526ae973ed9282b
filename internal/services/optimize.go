package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/metrics"
	"waste-route-service/internal/platform/apperr"
	"waste-route-service/internal/platform/logger"
	"waste-route-service/internal/platform/obs"
)

// Optimizer runs the clustering, tour, metrics and assignment pipeline.
// It holds only read-only options, so one instance may serve concurrent calls.
type Optimizer struct {
	opts Options
	now  func() time.Time
}

func NewOptimizer(opts Options) *Optimizer {
	return &Optimizer{opts: opts, now: time.Now}
}

func (o *Optimizer) Options() Options { return o.opts }

// WithDepot returns a copy of the optimizer that starts tours from depot.
func (o *Optimizer) WithDepot(depot domain.GeoPoint) *Optimizer {
	cp := *o
	cp.opts.Depot = depot
	return &cp
}

// Optimize plans routes for requests and binds them to vehicles.
//
// Requests without usable coordinates, and vehicles whose reported location
// is malformed, are left out and listed in the result's warnings. If nothing
// is left on either side the call returns an apperr with CodeNoCapacity.
// Constraints are accepted for forward compatibility and currently ignored.
func (o *Optimizer) Optimize(
	ctx context.Context,
	requests []domain.ServiceRequest,
	vehicles []domain.Vehicle,
	constraints domain.Constraints,
) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)
	log := logger.WithContext(ctx)

	validRequests, validVehicles, warnings := filterValid(requests, vehicles)
	for _, w := range warnings {
		log.Warn().Str("resource", w.Resource).Int64("id", w.ID).Msg(w.Message)
	}
	if len(constraints) > 0 {
		log.Debug().Int("constraints", len(constraints)).Msg("constraints supplied but not applied")
	}

	if len(validRequests) == 0 || len(validVehicles) == 0 {
		metrics.Optimizations.WithLabelValues("no_capacity").Inc()
		return nil, apperr.NoCapacity(len(validRequests), len(validVehicles))
	}

	k := min(len(validVehicles), len(validRequests))
	clusters, err := ClusterRequests(validRequests, k, o.opts.Cluster)
	if err != nil {
		metrics.Optimizations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("optimize: cluster requests: %w", err)
	}

	clusterIDs := make([]int, 0, len(clusters))
	for id := range clusters {
		clusterIDs = append(clusterIDs, id)
	}
	sort.Ints(clusterIDs)

	routes := make([]domain.Route, 0, len(clusters))
	for _, id := range clusterIDs {
		members := clusters[id]
		if len(members) == 0 {
			continue
		}

		tour := BuildTour(members, o.opts.Depot, o.opts.Metric)
		m := ComputeMetrics(tour, o.opts.Metric, o.opts.Route)
		routes = append(routes, domain.Route{
			RouteID:         id,
			Requests:        tour,
			TotalDistance:   m.TotalDistance,
			EstimatedTime:   m.EstimatedTime,
			EfficiencyScore: m.EfficiencyScore,
		})
	}

	plan, err := AssignVehicles(routes, validVehicles, o.opts.Metric)
	if err != nil {
		metrics.Optimizations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("optimize: assign vehicles: %w", err)
	}

	result := o.aggregate(routes, plan)
	result.Warnings = warnings

	metrics.Optimizations.WithLabelValues("ok").Inc()
	metrics.RoutesPlanned.Add(float64(len(result.Routes)))
	metrics.UnmatchedRoutes.Add(float64(len(result.UnmatchedRouteIDs)))

	log.Info().
		Int("requests", len(validRequests)).
		Int("vehicles", len(validVehicles)).
		Int("routes", len(result.Routes)).
		Int("unmatched_routes", len(result.UnmatchedRouteIDs)).
		Float64("total_distance", result.TotalDistance).
		Msg("optimization complete")

	return result, nil
}

// aggregate binds vehicles onto the routes and computes plan-level totals.
func (o *Optimizer) aggregate(routes []domain.Route, plan domain.AssignmentPlan) *domain.OptimizationResult {
	byRoute := make(map[int]domain.Assignment, len(plan.Assignments))
	for _, a := range plan.Assignments {
		byRoute[a.Route.RouteID] = a
	}

	result := &domain.OptimizationResult{
		CreatedAt:           o.now().UTC(),
		Depot:               o.opts.Depot,
		Routes:              make([]domain.Route, 0, len(routes)),
		UnmatchedRouteIDs:   []int{},
		UnmatchedVehicleIDs: []int64{},
		Warnings:            []domain.Warning{},
		TotalCompatibility:  plan.TotalCompatibility,
	}

	efficiencySum := 0.0
	for _, r := range routes {
		if a, ok := byRoute[r.RouteID]; ok {
			id := a.Vehicle.ID
			r.VehicleID = &id
			r.CompatibilityScore = a.CompatibilityScore
		} else {
			result.UnmatchedRouteIDs = append(result.UnmatchedRouteIDs, r.RouteID)
		}

		result.Routes = append(result.Routes, r)
		result.TotalDistance += r.TotalDistance
		result.TotalTime += r.EstimatedTime
		efficiencySum += r.EfficiencyScore
	}

	for _, v := range plan.UnmatchedVehicles {
		result.UnmatchedVehicleIDs = append(result.UnmatchedVehicleIDs, v.ID)
	}

	if len(result.Routes) > 0 {
		result.AverageEfficiency = efficiencySum / float64(len(result.Routes))
	}
	result.FuelSavings = FuelSavings(result.TotalDistance, o.opts.Savings)
	result.TimeSavings = TimeSavings(result.TotalTime, o.opts.Savings)
	return result
}

// FuelSavings estimates fuel saved against a baseline assumed to be
// DistanceImprovement longer than the optimized distance.
func FuelSavings(optimizedDistance float64, p SavingsParams) float64 {
	baseline := optimizedDistance * (1 + p.DistanceImprovement)
	return (baseline - optimizedDistance) * p.FuelPerUnit
}

// TimeSavings estimates hours saved against a baseline assumed to be
// TimeImprovement slower than the optimized time.
func TimeSavings(optimizedTime float64, p SavingsParams) float64 {
	baseline := optimizedTime * (1 + p.TimeImprovement)
	return baseline - optimizedTime
}

// filterValid drops requests without usable coordinates and vehicles whose
// reported location is malformed. A vehicle without any location is kept.
func filterValid(requests []domain.ServiceRequest, vehicles []domain.Vehicle) ([]domain.ServiceRequest, []domain.Vehicle, []domain.Warning) {
	warnings := []domain.Warning{}

	validRequests := make([]domain.ServiceRequest, 0, len(requests))
	for _, r := range requests {
		if !r.HasLocation() {
			warnings = append(warnings, coordinateWarning("service_request", r.ID))
			continue
		}
		validRequests = append(validRequests, r)
	}

	validVehicles := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Location != nil && !v.Location.Valid() {
			warnings = append(warnings, coordinateWarning("vehicle", v.ID))
			continue
		}
		validVehicles = append(validVehicles, v)
	}

	return validRequests, validVehicles, warnings
}

func coordinateWarning(resource string, id int64) domain.Warning {
	metrics.ExcludedRecords.WithLabelValues(resource, string(apperr.CodeInvalidCoordinate)).Inc()
	return domain.Warning{
		Code:     string(apperr.CodeInvalidCoordinate),
		Resource: resource,
		ID:       id,
		Message:  apperr.InvalidCoordinate(resource, id).Message,
	}
}
