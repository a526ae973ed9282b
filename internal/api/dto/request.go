package dto

import "waste-route-service/internal/domain"

type ServiceRequestDTO struct {
	ID                     int64      `json:"id"`
	CustomerName           string     `json:"customer_name,omitempty"`
	Address                string     `json:"address,omitempty"`
	ServiceType            string     `json:"service_type,omitempty"`
	Latitude               Coordinate `json:"latitude"`
	Longitude              Coordinate `json:"longitude"`
	RequiresSpecialVehicle bool       `json:"requires_special_vehicle"`
}

type ListRequestsResponse struct {
	Requests []ServiceRequestDTO `json:"requests"`
}

func FromServiceRequest(r domain.ServiceRequest) ServiceRequestDTO {
	lat, lon := splitPoint(r.Location)
	return ServiceRequestDTO{
		ID:                     r.ID,
		CustomerName:           r.CustomerName,
		Address:                r.Address,
		ServiceType:            r.ServiceType,
		Latitude:               lat,
		Longitude:              lon,
		RequiresSpecialVehicle: r.RequiresSpecialVehicle,
	}
}

func (d ServiceRequestDTO) ToDomain() domain.ServiceRequest {
	return domain.ServiceRequest{
		ID:                     d.ID,
		Location:               joinPoint(d.Latitude, d.Longitude),
		CustomerName:           d.CustomerName,
		Address:                d.Address,
		ServiceType:            d.ServiceType,
		RequiresSpecialVehicle: d.RequiresSpecialVehicle,
	}
}
