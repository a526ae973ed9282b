package services

import (
	"math"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/geo"
)

// BuildTour orders one cluster's requests with a greedy nearest-neighbor walk.
//
// The first stop is the request nearest the depot; each following stop is
// the unvisited request nearest the previous one. Equidistant candidates are
// resolved by their position in the input, so identical input always yields
// the same tour. This is a heuristic and makes no optimality claim.
//
// Requests must carry a location. The input slice is not modified.
func BuildTour(requests []domain.ServiceRequest, depot domain.GeoPoint, metric geo.Metric) []domain.ServiceRequest {
	tour := make([]domain.ServiceRequest, 0, len(requests))
	if len(requests) <= 1 {
		return append(tour, requests...)
	}

	visited := make([]bool, len(requests))
	current := depot

	for len(tour) < len(requests) {
		best := -1
		bestDist := math.Inf(1)

		// Strict comparison keeps the earliest candidate on ties.
		for i, r := range requests {
			if visited[i] {
				continue
			}
			if d := metric.Distance(current, *r.Location); d < bestDist {
				best, bestDist = i, d
			}
		}

		visited[best] = true
		tour = append(tour, requests[best])
		current = *requests[best].Location
	}

	return tour
}
