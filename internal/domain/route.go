package domain

// Represents the planned visiting order for one cluster of requests.
// A Route is built by the tour builder, enriched with metrics and finally
// bound to a vehicle by the assigner. It exists only for one optimization run
// unless the caller persists the enclosing plan.
type Route struct {
	RouteID            int              `json:"route_id"`
	VehicleID          *int64           `json:"vehicle_id"`
	Requests           []ServiceRequest `json:"requests"`
	TotalDistance      float64          `json:"total_distance"`
	EstimatedTime      float64          `json:"estimated_time"`
	EfficiencyScore    float64          `json:"efficiency_score"`
	CompatibilityScore float64          `json:"compatibility_score"`
}

// Demand is the number of stops on the route.
func (r Route) Demand() int { return len(r.Requests) }

// StartLocation returns the first stop's location, or nil for an empty route.
func (r Route) StartLocation() *GeoPoint {
	if len(r.Requests) == 0 {
		return nil
	}
	return r.Requests[0].Location
}

// RequiresSpecialVehicle is true when any stop needs special equipment.
func (r Route) RequiresSpecialVehicle() bool {
	for _, req := range r.Requests {
		if req.RequiresSpecialVehicle {
			return true
		}
	}
	return false
}
