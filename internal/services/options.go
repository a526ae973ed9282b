package services

import (
	"fmt"

	"waste-route-service/internal/config"
	"waste-route-service/internal/domain"
	"waste-route-service/internal/geo"
)

// ClusterOptions tunes the k-means step. Seed pins the otherwise random
// initialisation so identical input yields identical clusters.
type ClusterOptions struct {
	Seed          uint64
	MaxIterations int
	Restarts      int
	Tolerance     float64
}

// MetricParams converts distances into travel time.
// KmPerUnit turns one distance unit into kilometres (111 for degrees).
type MetricParams struct {
	KmPerUnit           float64
	AverageSpeedKmh     float64
	ServiceHoursPerStop float64
}

// SavingsParams are the assumed improvements over an unoptimized baseline.
// They are illustrative placeholders, not measured figures.
type SavingsParams struct {
	DistanceImprovement float64
	FuelPerUnit         float64
	TimeImprovement     float64
}

// Options configure one Optimizer.
type Options struct {
	Depot   domain.GeoPoint
	Metric  geo.Metric
	Cluster ClusterOptions
	Route   MetricParams
	Savings SavingsParams
}

func DefaultOptions() Options {
	return Options{
		Depot:  domain.GeoPoint{Lat: 40.7128, Lon: -74.0060},
		Metric: geo.Euclidean,
		Cluster: ClusterOptions{
			Seed:          42,
			MaxIterations: 300,
			Restarts:      10,
			Tolerance:     1e-4,
		},
		Route: MetricParams{
			KmPerUnit:           111,
			AverageSpeedKmh:     30,
			ServiceHoursPerStop: 0.25,
		},
		Savings: SavingsParams{
			DistanceImprovement: 0.2,
			FuelPerUnit:         0.1,
			TimeImprovement:     0.15,
		},
	}
}

// OptionsFromConfig builds optimizer options from loaded settings.
// Haversine distances are already kilometres, so KmPerUnit is forced to 1.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	metric, err := geo.ParseMetric(cfg.Optimizer.DistanceMetric)
	if err != nil {
		return Options{}, fmt.Errorf("optimizer options: %w", err)
	}

	o := cfg.Optimizer
	opts := Options{
		Depot:  domain.GeoPoint{Lat: cfg.Depot.Lat, Lon: cfg.Depot.Lon},
		Metric: metric,
		Cluster: ClusterOptions{
			Seed:          o.Seed,
			MaxIterations: o.MaxIterations,
			Restarts:      o.Restarts,
			Tolerance:     o.Tolerance,
		},
		Route: MetricParams{
			KmPerUnit:           o.KmPerUnit,
			AverageSpeedKmh:     o.AverageSpeedKmh,
			ServiceHoursPerStop: o.ServiceHoursPerStop,
		},
		Savings: SavingsParams{
			DistanceImprovement: o.DistanceImprovement,
			FuelPerUnit:         o.FuelPerUnit,
			TimeImprovement:     o.TimeImprovement,
		},
	}
	if metric == geo.Haversine {
		opts.Route.KmPerUnit = 1
	}
	return opts, nil
}
