package repositories

import "waste-route-service/internal/ports"

// Store is implemented by every backend in this package.
type Store interface {
	ports.ServiceRequestRepository
	ports.VehicleRepository
	ports.PlanRepository
	ports.DemandHistoryRepository
}

var (
	_ Store = (*PostgresRepository)(nil)
	_ Store = (*MemoryStore)(nil)
)
