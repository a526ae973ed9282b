package ports

import (
	"context"
	"time"

	"waste-route-service/internal/domain"
)

// Port: a boundary for retrieving service requests awaiting collection.
type ServiceRequestRepository interface {
	// Retrieve all pending service requests.
	ListPendingRequests(ctx context.Context) ([]domain.ServiceRequest, error)
}

// Port: a boundary for retrieving the fleet.
type VehicleRepository interface {
	// Retrieve all vehicles regardless of status.
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
}

// Port: persistence for optimization results.
type PlanRepository interface {
	SavePlan(ctx context.Context, plan *domain.OptimizationResult) error
	// Return an apperr NOT_FOUND error when id is unknown.
	GetPlan(ctx context.Context, id string) (*domain.OptimizationResult, error)
}

// Port: daily request counts used for demand forecasting.
type DemandHistoryRepository interface {
	// Retrieve records dated on or after since, oldest first.
	ListDemandHistory(ctx context.Context, since time.Time) ([]domain.DemandRecord, error)
}
