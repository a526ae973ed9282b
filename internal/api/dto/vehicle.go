package dto

import "waste-route-service/internal/domain"

// VehicleDTO reads {id, capacity, type, current_location}. The flat
// vehicle_type and latitude/longitude keys are accepted as aliases.
type VehicleDTO struct {
	ID              int64        `json:"id"`
	VehicleNumber   string       `json:"vehicle_number,omitempty"`
	Capacity        float64      `json:"capacity"`
	Type            string       `json:"type,omitempty"`
	CurrentLocation *LocationDTO `json:"current_location,omitempty"`
	Status          string       `json:"status,omitempty"`

	VehicleType string      `json:"vehicle_type,omitempty"`
	Latitude    *Coordinate `json:"latitude,omitempty"`
	Longitude   *Coordinate `json:"longitude,omitempty"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleDTO `json:"vehicles"`
}

func FromVehicle(v domain.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:              v.ID,
		VehicleNumber:   v.Number,
		Capacity:        v.Capacity,
		Type:            v.Type,
		CurrentLocation: fromPoint(v.Location),
		Status:          string(v.Status),
	}
}

func (d VehicleDTO) ToDomain() domain.Vehicle {
	typ := d.Type
	if typ == "" {
		typ = d.VehicleType
	}
	return domain.Vehicle{
		ID:       d.ID,
		Number:   d.VehicleNumber,
		Capacity: d.Capacity,
		Type:     typ,
		Location: d.location(),
		Status:   domain.VehicleStatus(d.Status),
	}
}

// location prefers the nested form over the flat aliases.
func (d VehicleDTO) location() *domain.GeoPoint {
	if d.CurrentLocation != nil {
		return joinPoint(d.CurrentLocation.Latitude, d.CurrentLocation.Longitude)
	}
	var lat, lon Coordinate
	if d.Latitude != nil {
		lat = *d.Latitude
	}
	if d.Longitude != nil {
		lon = *d.Longitude
	}
	return joinPoint(lat, lon)
}
