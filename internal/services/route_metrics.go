package services

import (
	"waste-route-service/internal/domain"
	"waste-route-service/internal/geo"
)

type RouteMetrics struct {
	TotalDistance   float64
	EstimatedTime   float64
	EfficiencyScore float64
}

// TourDistance sums the legs between consecutive stops. The depot leg is not
// included, so tours with fewer than two stops have zero distance.
func TourDistance(tour []domain.ServiceRequest, metric geo.Metric) float64 {
	total := 0.0
	for i := 1; i < len(tour); i++ {
		total += metric.Distance(*tour[i-1].Location, *tour[i].Location)
	}
	return total
}

// ComputeMetrics derives distance, time (hours) and efficiency for a tour.
//
//	time       = distance*KmPerUnit/AverageSpeedKmh + stops*ServiceHoursPerStop
//	efficiency = stops / (distance*time + 1)
//
// The +1 only keeps the ratio finite for zero-length tours.
func ComputeMetrics(tour []domain.ServiceRequest, metric geo.Metric, p MetricParams) RouteMetrics {
	stops := float64(len(tour))
	distance := TourDistance(tour, metric)

	travel := 0.0
	if p.AverageSpeedKmh > 0 {
		travel = distance * p.KmPerUnit / p.AverageSpeedKmh
	}
	estimated := travel + stops*p.ServiceHoursPerStop

	efficiency := 0.0
	if stops > 0 {
		efficiency = stops / (distance*estimated + 1)
	}

	return RouteMetrics{
		TotalDistance:   distance,
		EstimatedTime:   estimated,
		EfficiencyScore: efficiency,
	}
}
