package ports

import (
	"context"

	"waste-route-service/internal/domain"
)

// Port: announces newly created plans to downstream consumers.
type PlanPublisher interface {
	PublishPlan(ctx context.Context, plan *domain.OptimizationResult) error
}
