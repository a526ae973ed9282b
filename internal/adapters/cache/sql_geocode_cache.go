package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/obs"
)

// SQLGeocodeCache remembers where addresses resolved to. Rows are keyed by a
// case-folded, whitespace-collapsed form of the address, so "12 Water St" and
// "12  WATER st" share an entry. Rows older than maxAge are treated as misses
// and overwritten on the next successful lookup.
type SQLGeocodeCache struct {
	DB     *sql.DB
	maxAge time.Duration
	now    func() time.Time
}

func NewSQLGeocodeCache(db *sql.DB, maxAge time.Duration) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, maxAge: maxAge, now: time.Now}
}

// addressKey is the stored form of an address.
func addressKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

// keysFor groups the caller's addresses by stored key, dropping blanks.
func keysFor(addresses []string) (keys []string, byKey map[string][]string) {
	byKey = make(map[string][]string, len(addresses))
	for _, a := range addresses {
		k := addressKey(a)
		if k == "" {
			continue
		}
		if _, seen := byKey[k]; !seen {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], a)
	}
	return keys, byKey
}

// GetMany returns cached points keyed by the addresses exactly as passed in.
func (s *SQLGeocodeCache) GetMany(ctx context.Context, addresses []string) (_ map[string]domain.GeoPoint, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	keys, byKey := keysFor(addresses)
	out := make(map[string]domain.GeoPoint, len(addresses))
	if len(keys) == 0 {
		return out, nil
	}

	// The zero time disables expiry.
	var cutoff time.Time
	if s.maxAge > 0 {
		cutoff = s.now().Add(-s.maxAge)
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT address, lat, lon
	FROM geocode_cache
	WHERE address = ANY($1::text[]) AND resolved_at >= $2;
	`, keys, cutoff)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: lookup %d addresses: %w", len(keys), err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var p domain.GeoPoint
		if err := rows.Scan(&key, &p.Lat, &p.Lon); err != nil {
			return nil, fmt.Errorf("geocode cache: scan: %w", err)
		}
		for _, a := range byKey[key] {
			out[a] = p
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocode cache: rows: %w", err)
	}
	return out, nil
}

// PutMany upserts every resolved address in one statement. Points outside
// the WGS84 range are skipped.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeoPoint) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	keys, lats, lons := upsertColumns(results)
	if len(keys) == 0 {
		return nil
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (address, lat, lon, resolved_at)
	SELECT address, lat, lon, $4
	FROM unnest($1::text[], $2::float8[], $3::float8[]) AS t(address, lat, lon)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		resolved_at = EXCLUDED.resolved_at;
	`, keys, lats, lons, s.now().UTC())
	if err != nil {
		return fmt.Errorf("geocode cache: upsert %d addresses: %w", len(keys), err)
	}
	return nil
}

// upsertColumns flattens results into parallel arrays, one row per stored
// key. When two spellings fold to the same key the last one written wins.
func upsertColumns(results map[string]domain.GeoPoint) (keys []string, lats, lons []float64) {
	idx := make(map[string]int, len(results))
	for addr, p := range results {
		k := addressKey(addr)
		if k == "" || !p.Valid() {
			continue
		}
		if i, ok := idx[k]; ok {
			lats[i], lons[i] = p.Lat, p.Lon
			continue
		}
		idx[k] = len(keys)
		keys = append(keys, k)
		lats = append(lats, p.Lat)
		lons = append(lons, p.Lon)
	}
	return keys, lats, lons
}
