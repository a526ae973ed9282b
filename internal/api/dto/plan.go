package dto

import (
	"time"

	"waste-route-service/internal/domain"
)

// PlanRequest is the POST /plans body. Omitted requests or vehicles are
// loaded from storage; an explicit empty list is used as-is.
type PlanRequest struct {
	Requests    []ServiceRequestDTO `json:"requests"`
	Vehicles    []VehicleDTO        `json:"vehicles"`
	Depot       *DepotDTO           `json:"depot"`
	Constraints map[string]any      `json:"constraints"`
}

type DepotDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type StopResponse struct {
	Sequence     int     `json:"sequence"`
	RequestID    int64   `json:"request_id"`
	CustomerName string  `json:"customer_name,omitempty"`
	Address      string  `json:"address,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

type RouteResponse struct {
	RouteID            int            `json:"route_id"`
	VehicleID          *int64         `json:"vehicle_id"`
	Requests           []StopResponse `json:"requests"`
	TotalDistance      float64        `json:"total_distance"`
	EstimatedTime      float64        `json:"estimated_time"`
	EfficiencyScore    float64        `json:"efficiency_score"`
	CompatibilityScore float64        `json:"compatibility_score"`
}

type PlanResponse struct {
	PlanID              string           `json:"plan_id"`
	CreatedAt           time.Time        `json:"created_at"`
	Depot               DepotDTO         `json:"depot"`
	Routes              []RouteResponse  `json:"routes"`
	UnmatchedRouteIDs   []int            `json:"unmatched_route_ids"`
	UnmatchedVehicleIDs []int64          `json:"unmatched_vehicle_ids"`
	Warnings            []domain.Warning `json:"warnings"`
	TotalDistance       float64          `json:"total_distance"`
	TotalTime           float64          `json:"total_time"`
	AverageEfficiency   float64          `json:"average_efficiency"`
	FuelSavings         float64          `json:"fuel_savings"`
	TimeSavings         float64          `json:"time_savings"`
	TotalCompatibility  float64          `json:"total_compatibility"`
}

func (p PlanRequest) Input() (requests []domain.ServiceRequest, vehicles []domain.Vehicle, depot *domain.GeoPoint) {
	if p.Requests != nil {
		requests = make([]domain.ServiceRequest, 0, len(p.Requests))
		for _, r := range p.Requests {
			requests = append(requests, r.ToDomain())
		}
	}
	if p.Vehicles != nil {
		vehicles = make([]domain.Vehicle, 0, len(p.Vehicles))
		for _, v := range p.Vehicles {
			vehicles = append(vehicles, v.ToDomain())
		}
	}
	if p.Depot != nil {
		depot = &domain.GeoPoint{Lat: p.Depot.Latitude, Lon: p.Depot.Longitude}
	}
	return requests, vehicles, depot
}

func FromPlan(res *domain.OptimizationResult) PlanResponse {
	out := PlanResponse{
		PlanID:              res.PlanID,
		CreatedAt:           res.CreatedAt,
		Depot:               DepotDTO{Latitude: res.Depot.Lat, Longitude: res.Depot.Lon},
		Routes:              make([]RouteResponse, 0, len(res.Routes)),
		UnmatchedRouteIDs:   nonNil(res.UnmatchedRouteIDs),
		UnmatchedVehicleIDs: nonNil(res.UnmatchedVehicleIDs),
		Warnings:            nonNil(res.Warnings),
		TotalDistance:       res.TotalDistance,
		TotalTime:           res.TotalTime,
		AverageEfficiency:   res.AverageEfficiency,
		FuelSavings:         res.FuelSavings,
		TimeSavings:         res.TimeSavings,
		TotalCompatibility:  res.TotalCompatibility,
	}

	for _, r := range res.Routes {
		stops := make([]StopResponse, 0, len(r.Requests))
		for i, req := range r.Requests {
			s := StopResponse{
				Sequence:     i + 1,
				RequestID:    req.ID,
				CustomerName: req.CustomerName,
				Address:      req.Address,
			}
			if req.Location != nil {
				s.Latitude, s.Longitude = req.Location.Lat, req.Location.Lon
			}
			stops = append(stops, s)
		}

		out.Routes = append(out.Routes, RouteResponse{
			RouteID:            r.RouteID,
			VehicleID:          r.VehicleID,
			Requests:           stops,
			TotalDistance:      r.TotalDistance,
			EstimatedTime:      r.EstimatedTime,
			EfficiencyScore:    r.EfficiencyScore,
			CompatibilityScore: r.CompatibilityScore,
		})
	}

	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
