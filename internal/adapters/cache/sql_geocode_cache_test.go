package cache

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waste-route-service/internal/domain"
)

func TestAddressKeyFoldsCaseAndWhitespace(t *testing.T) {
	assert.Equal(t, "12 water st, new york", addressKey("  12  Water St,\tNew York "))
	assert.Equal(t, "", addressKey(" \n "))
}

func TestKeysForGroupsSpellings(t *testing.T) {
	keys, byKey := keysFor([]string{"12 Water St", "12  WATER st", "", "80 Pine St"})

	assert.Equal(t, []string{"12 water st", "80 pine st"}, keys)
	assert.Equal(t, []string{"12 Water St", "12  WATER st"}, byKey["12 water st"])
}

func TestUpsertColumnsSkipsInvalidPoints(t *testing.T) {
	keys, lats, lons := upsertColumns(map[string]domain.GeoPoint{
		"12 Water St": {Lat: 40.70, Lon: -74.01},
		"nowhere":     {Lat: math.NaN(), Lon: 0},
		"   ":         {Lat: 1, Lon: 1},
	})

	require.Equal(t, []string{"12 water st"}, keys)
	assert.Equal(t, []float64{40.70}, lats)
	assert.Equal(t, []float64{-74.01}, lons)
}

func TestSQLGeocodeCacheRequiresDB(t *testing.T) {
	c := NewSQLGeocodeCache(nil, 0)

	_, err := c.GetMany(context.Background(), []string{"a"})
	assert.Error(t, err)
	assert.Error(t, c.PutMany(context.Background(), map[string]domain.GeoPoint{"a": {}}))
}
