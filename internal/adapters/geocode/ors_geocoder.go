// Package geocode resolves service addresses to coordinates through
// OpenRouteService, with an optional persistent cache in front of it.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/logger"
	"waste-route-service/internal/platform/obs"
)

// AddressCache is the persistent lookup consulted before calling ORS.
// cache.SQLGeocodeCache satisfies it.
type AddressCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.GeoPoint, error)
	PutMany(ctx context.Context, results map[string]domain.GeoPoint) error
}

// Config for ORSGeocoder. Zero values fall back to sensible defaults.
type Config struct {
	APIKey  string
	BaseURL string
	Country string
	Timeout time.Duration
	// RequestsPerSecond throttles outgoing calls; 0 means unlimited.
	RequestsPerSecond float64
}

// ORSGeocoder implements ports.Geocoder using the OpenRouteService
// /geocode/search endpoint.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Throttled external API calls with retry/backoff
//
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
	limiter *rate.Limiter
	cache   AddressCache
	backoff time.Duration
}

func NewORSGeocoder(cfg Config, cache AddressCache) (*ORSGeocoder, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &ORSGeocoder{
		session: &http.Client{Timeout: timeout},
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		country: cfg.Country,
		limiter: limiter,
		cache:   cache,
		backoff: 200 * time.Millisecond,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves addresses, consulting the cache first. The result is keyed
// by the caller's original address strings. Addresses ORS cannot place are
// omitted; transport failures abort the whole call.
func (o *ORSGeocoder) Geocode(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)
	log := logger.WithContext(ctx).With().Str("component", "ors_geocoder").Logger()

	byNorm := make(map[string][]string, len(addresses))
	needed := make([]string, 0, len(addresses))
	for _, a := range addresses {
		n := normalize(a)
		if n == "" {
			continue
		}
		if _, ok := byNorm[n]; !ok {
			needed = append(needed, n)
		}
		byNorm[n] = append(byNorm[n], a)
	}

	out := make(map[string]domain.GeoPoint, len(addresses))
	if len(needed) == 0 {
		return out, nil
	}

	hits := map[string]domain.GeoPoint{}
	if o.cache != nil {
		hits, err = o.cache.GetMany(ctx, needed)
		if err != nil {
			// Fall through to ORS.
			log.Error().Err(err).Msg("geocode cache read failed")
			hits = map[string]domain.GeoPoint{}
		}
	}

	fresh := make(map[string]domain.GeoPoint)
	for _, n := range needed {
		if _, ok := hits[n]; ok {
			continue
		}

		p, found, err := o.search(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", n, err)
		}
		if !found {
			log.Warn().Str("address", n).Msg("no geocode result")
			continue
		}
		fresh[n] = p
	}

	if o.cache != nil && len(fresh) > 0 {
		if err := o.cache.PutMany(ctx, fresh); err != nil {
			log.Error().Err(err).Msg("geocode cache write failed")
		}
	}

	for n, originals := range byNorm {
		p, ok := hits[n]
		if !ok {
			p, ok = fresh[n]
		}
		if !ok {
			continue
		}
		for _, a := range originals {
			out[a] = p
		}
	}

	return out, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// search resolves one normalized address. found is false when ORS returns no
// usable feature.
func (o *ORSGeocoder) search(ctx context.Context, address string) (_ domain.GeoPoint, found bool, err error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.GeoPoint{}, false, nil
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.GeoPoint{}, false, nil
	}

	p := domain.GeoPoint{Lon: coords[0], Lat: coords[1]}
	if !p.Valid() {
		return domain.GeoPoint{}, false, nil
	}
	return p, true, nil
}
