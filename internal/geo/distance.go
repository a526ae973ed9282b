// Package geo computes distances between GeoPoints.
//
// The default metric is planar Euclidean distance on raw degrees. It is only
// meaningful for areas small enough that a degree of latitude and a degree of
// longitude are roughly the same length. Haversine returns great-circle
// kilometres instead; switching metric changes the absolute scale of every
// downstream figure but not the ordering of candidates within one run.
package geo

import (
	"fmt"
	"math"
	"strings"

	"waste-route-service/internal/domain"
)

const earthRadiusKm = 6371.0

type Metric int

const (
	Euclidean Metric = iota
	Haversine
)

// ParseMetric maps a configuration value to a Metric. Empty means Euclidean.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "euclidean":
		return Euclidean, nil
	case "haversine":
		return Haversine, nil
	default:
		return Euclidean, fmt.Errorf("unknown distance metric %q", s)
	}
}

func (m Metric) String() string {
	if m == Haversine {
		return "haversine"
	}
	return "euclidean"
}

// Distance returns the non-negative, symmetric distance between a and b.
func (m Metric) Distance(a, b domain.GeoPoint) float64 {
	if m == Haversine {
		return HaversineKm(a, b)
	}
	return EuclideanDegrees(a, b)
}

// EuclideanDegrees is the planar distance between two points in degree units.
func EuclideanDegrees(a, b domain.GeoPoint) float64 {
	return math.Hypot(b.Lat-a.Lat, b.Lon-a.Lon)
}

// HaversineKm is the great-circle distance in kilometres.
func HaversineKm(a, b domain.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
