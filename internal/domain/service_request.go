package domain

// Represents a single pickup the back office has scheduled.
// Requests are owned by the data layer; the optimizer only reads them.
// Location is nil when the record carries no usable coordinates.
type ServiceRequest struct {
	ID                     int64     `json:"id"`
	Location               *GeoPoint `json:"location,omitempty"`
	CustomerName           string    `json:"customer_name,omitempty"`
	Address                string    `json:"address,omitempty"`
	ServiceType            string    `json:"service_type,omitempty"`
	RequiresSpecialVehicle bool      `json:"requires_special_vehicle,omitempty"`
}

// HasLocation reports whether the request can be placed on a map.
func (r ServiceRequest) HasLocation() bool {
	return r.Location != nil && r.Location.Valid()
}
