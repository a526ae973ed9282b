package domain

import "time"

// Constraints is reserved for time windows and capacity rules. It is carried
// through the pipeline but does not influence the result yet.
type Constraints map[string]any

// Assignment binds one route to one vehicle.
type Assignment struct {
	Route              Route   `json:"route"`
	Vehicle            Vehicle `json:"vehicle"`
	CompatibilityScore float64 `json:"compatibility_score"`
}

// AssignmentPlan is a one-to-one matching between routes and vehicles.
// Routes or vehicles left over when the counts differ are listed explicitly.
type AssignmentPlan struct {
	Assignments          []Assignment `json:"assignments"`
	UnmatchedRoutes      []Route      `json:"unmatched_routes"`
	UnmatchedVehicles    []Vehicle    `json:"unmatched_vehicles"`
	TotalCompatibility   float64      `json:"total_compatibility"`
	AverageCompatibility float64      `json:"average_compatibility"`
}

// Warning describes a record excluded from optimization.
type Warning struct {
	Code     string `json:"code"`
	Resource string `json:"resource"`
	ID       int64  `json:"id"`
	Message  string `json:"message"`
}

// OptimizationResult is the output of one optimization run.
// FuelSavings and TimeSavings are fixed-percentage estimates against an
// assumed unoptimized baseline, not measurements.
type OptimizationResult struct {
	PlanID              string    `json:"plan_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	Depot               GeoPoint  `json:"depot"`
	Routes              []Route   `json:"routes"`
	UnmatchedRouteIDs   []int     `json:"unmatched_route_ids"`
	UnmatchedVehicleIDs []int64   `json:"unmatched_vehicle_ids"`
	Warnings            []Warning `json:"warnings"`
	TotalDistance       float64   `json:"total_distance"`
	TotalTime           float64   `json:"total_time"`
	AverageEfficiency   float64   `json:"average_efficiency"`
	FuelSavings         float64   `json:"fuel_savings"`
	TimeSavings         float64   `json:"time_savings"`
	TotalCompatibility  float64   `json:"total_compatibility"`
}

// Route returns the route with the given id.
func (r *OptimizationResult) Route(routeID int) (Route, bool) {
	for _, rt := range r.Routes {
		if rt.RouteID == routeID {
			return rt, true
		}
	}
	return Route{}, false
}
