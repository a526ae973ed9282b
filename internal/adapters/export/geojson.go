// Package export renders routes in formats external map tools understand.
package export

import (
	"encoding/json"
	"fmt"

	"waste-route-service/internal/domain"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds a Point ([lon, lat]) or a LineString ([][lon, lat]).
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// RouteGeoJSON converts a route into a FeatureCollection: one LineString in
// visiting order (when the route has at least two stops) and one Point per
// stop numbered from 1. Stops without a location are skipped.
func RouteGeoJSON(route domain.Route) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}

	line := make([][]float64, 0, len(route.Requests))
	points := make([]Feature, 0, len(route.Requests))
	for i, r := range route.Requests {
		if r.Location == nil {
			continue
		}
		pos := r.Location.CoordsToList()
		line = append(line, pos)

		name := r.CustomerName
		if name == "" {
			name = "Unknown"
		}
		points = append(points, Feature{
			Type:     "Feature",
			Geometry: Geometry{Type: "Point", Coordinates: pos},
			Properties: map[string]any{
				"stop":          i + 1,
				"request_id":    r.ID,
				"customer_name": name,
			},
		})
	}

	if len(line) >= 2 {
		props := map[string]any{
			"route_id":       route.RouteID,
			"total_distance": route.TotalDistance,
			"estimated_time": route.EstimatedTime,
		}
		if route.VehicleID != nil {
			props["vehicle_id"] = *route.VehicleID
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "LineString", Coordinates: line},
			Properties: props,
		})
	}

	fc.Features = append(fc.Features, points...)
	return fc
}

// MarshalRoute returns the route's GeoJSON encoding.
func MarshalRoute(route domain.Route) ([]byte, error) {
	b, err := json.Marshal(RouteGeoJSON(route))
	if err != nil {
		return nil, fmt.Errorf("marshal route %d geojson: %w", route.RouteID, err)
	}
	return b, nil
}
