package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/geo"
)

func TestComputeMetrics(t *testing.T) {
	params := DefaultOptions().Route
	tour := []domain.ServiceRequest{req(1, 0, 0), req(2, 3, 4)}

	m := ComputeMetrics(tour, geo.Euclidean, params)

	assert.InDelta(t, 5.0, m.TotalDistance, 1e-9)
	// 5*111/30 hours of driving plus two quarter-hour stops.
	assert.InDelta(t, 19.0, m.EstimatedTime, 1e-9)
	assert.InDelta(t, 2.0/96.0, m.EfficiencyScore, 1e-12)
}

func TestComputeMetricsDegenerateTours(t *testing.T) {
	params := DefaultOptions().Route

	empty := ComputeMetrics(nil, geo.Euclidean, params)
	assert.Zero(t, empty.TotalDistance)
	assert.Zero(t, empty.EstimatedTime)
	assert.Zero(t, empty.EfficiencyScore)

	single := ComputeMetrics([]domain.ServiceRequest{req(1, 40.7, -74)}, geo.Euclidean, params)
	assert.Zero(t, single.TotalDistance)
	assert.InDelta(t, 0.25, single.EstimatedTime, 1e-12)
	assert.InDelta(t, 1.0, single.EfficiencyScore, 1e-12)

	// Two stops at the same place: zero distance, still a positive score.
	same := ComputeMetrics([]domain.ServiceRequest{req(1, 1, 1), req(2, 1, 1)}, geo.Euclidean, params)
	assert.Zero(t, same.TotalDistance)
	assert.InDelta(t, 2.0, same.EfficiencyScore, 1e-12)
}

func TestTourDistancePositiveForDistinctStops(t *testing.T) {
	tour := []domain.ServiceRequest{req(1, 40.71, -74.0), req(2, 40.73, -73.99), req(3, 40.75, -73.97)}

	assert.Greater(t, TourDistance(tour, geo.Euclidean), 0.0)
	assert.Greater(t, TourDistance(tour, geo.Haversine), 0.0)
}
