package ports

import (
	"context"

	"waste-route-service/internal/domain"
)

// Port: resolves free-form addresses to coordinates.
type Geocoder interface {
	// Return coordinates for the addresses that could be resolved, keyed by
	// the address exactly as given. Unresolved addresses are simply absent.
	Geocode(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error)
}
