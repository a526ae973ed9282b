package domain

// DefaultVehicleCapacity is used when a vehicle record has no positive capacity.
const DefaultVehicleCapacity = 10

// VehicleTypeSpecial marks vehicles able to serve routes flagged as
// requiring special equipment (hazardous or bulk pickups).
const VehicleTypeSpecial = "special"

type VehicleStatus string

const (
	VehicleAvailable    VehicleStatus = "available"
	VehicleInUse        VehicleStatus = "in_use"
	VehicleMaintenance  VehicleStatus = "maintenance"
	VehicleOutOfService VehicleStatus = "out_of_service"
)

// Collection vehicle as seen by the planner. Location and Status are optional.
type Vehicle struct {
	ID       int64         `json:"id"`
	Number   string        `json:"vehicle_number,omitempty"`
	Capacity float64       `json:"capacity,omitempty"`
	Type     string        `json:"type,omitempty"`
	Location *GeoPoint     `json:"current_location,omitempty"`
	Status   VehicleStatus `json:"status,omitempty"`
}

// EffectiveCapacity returns the capacity used for scoring.
func (v Vehicle) EffectiveCapacity() float64 {
	if v.Capacity <= 0 {
		return DefaultVehicleCapacity
	}
	return v.Capacity
}

// Available reports whether the vehicle can be put on a route.
// Records without a status are treated as available.
func (v Vehicle) Available() bool {
	return v.Status == "" || v.Status == VehicleAvailable
}

// IsSpecial reports whether the vehicle satisfies special-vehicle routes.
func (v Vehicle) IsSpecial() bool {
	return v.Type == VehicleTypeSpecial
}
