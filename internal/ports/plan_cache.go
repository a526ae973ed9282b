package ports

import (
	"context"

	"waste-route-service/internal/domain"
)

// Port: a short-lived cache of optimization results keyed by input fingerprint.
type PlanCache interface {
	// Return (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) (*domain.OptimizationResult, bool, error)
	Put(ctx context.Context, key string, plan *domain.OptimizationResult) error
}
