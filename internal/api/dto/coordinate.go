package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"waste-route-service/internal/domain"
)

// Coordinate is a latitude or longitude read leniently from client input.
// JSON numbers and numeric strings are accepted; any other value decodes
// without error but is marked bad, so a single malformed record is reported
// by the optimizer rather than rejecting the whole body.
type Coordinate struct {
	Value float64
	Set   bool
	Bad   bool
}

func Coord(v float64) Coordinate { return Coordinate{Value: v, Set: true} }

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	*c = Coordinate{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			c.Bad = true
			return nil
		}
		raw = s
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		c.Bad = true
		return nil
	}
	c.Value, c.Set = v, true
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

func (c Coordinate) present() bool { return c.Set || c.Bad }

// LocationDTO is the nested {latitude, longitude} form.
type LocationDTO struct {
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
}

func fromPoint(p *domain.GeoPoint) *LocationDTO {
	if p == nil {
		return nil
	}
	return &LocationDTO{Latitude: Coord(p.Lat), Longitude: Coord(p.Lon)}
}

func splitPoint(p *domain.GeoPoint) (Coordinate, Coordinate) {
	if p == nil {
		return Coordinate{}, Coordinate{}
	}
	return Coord(p.Lat), Coord(p.Lon)
}

// joinPoint returns nil when neither half was supplied. A half that is
// missing or malformed while the other is present yields a point that fails
// GeoPoint.Valid, so the record is excluded with a warning downstream.
func joinPoint(lat, lon Coordinate) *domain.GeoPoint {
	if !lat.present() && !lon.present() {
		return nil
	}
	if !lat.Set || !lon.Set {
		return &domain.GeoPoint{Lat: math.NaN(), Lon: math.NaN()}
	}
	return &domain.GeoPoint{Lat: lat.Value, Lon: lon.Value}
}
