package services

import (
	"gonum.org/v1/gonum/mat"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/geo"
	"waste-route-service/internal/platform/apperr"
)

// specialVehiclePenalty scales the score of a regular vehicle offered a route
// that needs special equipment.
const specialVehiclePenalty = 0.5

// CompatibilityScore rates how well vehicle suits route, higher is better.
//
// It multiplies three factors: the capacity ratio min(stops/capacity, 1), a
// 0.5 penalty when the route needs a special vehicle and this one is not, and
// a proximity factor 1/(1+d) between the route start and the vehicle's
// current location when both are known.
func CompatibilityScore(route domain.Route, vehicle domain.Vehicle, metric geo.Metric) float64 {
	score := 1.0

	ratio := float64(route.Demand()) / vehicle.EffectiveCapacity()
	if ratio > 1 {
		ratio = 1
	}
	score *= ratio

	if route.RequiresSpecialVehicle() && !vehicle.IsSpecial() {
		score *= specialVehiclePenalty
	}

	if start := route.StartLocation(); start != nil && vehicle.Location != nil {
		score *= 1 / (1 + metric.Distance(*start, *vehicle.Location))
	}

	return score
}

// AssignVehicles matches routes to vehicles one-to-one, maximizing the total
// compatibility score with an exact assignment solver. When the counts
// differ, the surplus routes or vehicles are returned as unmatched.
func AssignVehicles(routes []domain.Route, vehicles []domain.Vehicle, metric geo.Metric) (domain.AssignmentPlan, error) {
	if len(routes) == 0 || len(vehicles) == 0 {
		return domain.AssignmentPlan{}, apperr.NoCapacity(len(routes), len(vehicles))
	}

	scores := mat.NewDense(len(routes), len(vehicles), nil)
	for i, r := range routes {
		for j, v := range vehicles {
			scores.Set(i, j, CompatibilityScore(r, v, metric))
		}
	}

	vehicleOf := MatchMaxScore(scores)

	plan := domain.AssignmentPlan{
		Assignments:       make([]domain.Assignment, 0, min(len(routes), len(vehicles))),
		UnmatchedRoutes:   []domain.Route{},
		UnmatchedVehicles: []domain.Vehicle{},
	}

	taken := make([]bool, len(vehicles))
	for i, j := range vehicleOf {
		if j < 0 {
			plan.UnmatchedRoutes = append(plan.UnmatchedRoutes, routes[i])
			continue
		}
		taken[j] = true
		s := scores.At(i, j)
		plan.Assignments = append(plan.Assignments, domain.Assignment{
			Route:              routes[i],
			Vehicle:            vehicles[j],
			CompatibilityScore: s,
		})
		plan.TotalCompatibility += s
	}

	for j, v := range vehicles {
		if !taken[j] {
			plan.UnmatchedVehicles = append(plan.UnmatchedVehicles, v)
		}
	}

	if len(plan.Assignments) > 0 {
		plan.AverageCompatibility = plan.TotalCompatibility / float64(len(plan.Assignments))
	}
	return plan, nil
}
