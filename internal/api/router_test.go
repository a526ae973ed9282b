package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"waste-route-service/internal/adapters/repositories"
	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/services"
)

func f64(v float64) *float64 { return &v }

func newTestRouter(t *testing.T, limiter *rate.Limiter) http.Handler {
	t.Helper()

	store := repositories.NewMemoryStore()
	store.Load(&repositories.Fixture{
		Requests: []repositories.RequestSeed{
			{ID: 1, CustomerName: "Harbor Deli", Latitude: f64(40.7128), Longitude: f64(-74.0060)},
			{ID: 2, Latitude: f64(40.7150), Longitude: f64(-74.0020)},
			{ID: 3, Latitude: f64(40.7800), Longitude: f64(-73.9500)},
			{ID: 4, Latitude: f64(40.7820), Longitude: f64(-73.9480)},
		},
		Vehicles: []repositories.VehicleSeed{
			{ID: 10, Capacity: 10},
			{ID: 11, Capacity: 10},
			{ID: 12, Capacity: 10, Status: "maintenance"},
		},
		History: []repositories.HistorySeed{{Date: "2026-03-02", Requests: 12}},
	})

	svc := services.NewPlanService(services.NewOptimizer(services.DefaultOptions()), store, store, store, store)

	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		Requests:    store,
		Vehicles:    store,
		Planner:     svc,
		PlanLimiter: limiter,
		Metrics:     reg,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListRequestsAndVehicles(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodGet, "/requests", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var reqs dto.ListRequestsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reqs))
	assert.Len(t, reqs.Requests, 4)
	assert.Equal(t, "Harbor Deli", reqs.Requests[0].CustomerName)

	rec = do(t, h, http.MethodGet, "/vehicles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var vehicles dto.ListVehiclesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vehicles))
	assert.Len(t, vehicles.Vehicles, 3)
}

func TestCreateAndFetchPlan(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/plans", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var plan dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.NotEmpty(t, plan.PlanID)
	require.Len(t, plan.Routes, 2)
	assert.Greater(t, plan.AverageEfficiency, 0.0)
	for _, r := range plan.Routes {
		require.NotNil(t, r.VehicleID)
		assert.NotEqual(t, int64(12), *r.VehicleID)
		assert.Equal(t, 1, r.Requests[0].Sequence)
	}

	rec = do(t, h, http.MethodGet, "/plans/"+plan.PlanID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, plan.PlanID, fetched.PlanID)
	assert.Equal(t, plan.TotalDistance, fetched.TotalDistance)

	routeID := plan.Routes[0].RouteID
	rec = do(t, h, http.MethodGet, "/plans/"+plan.PlanID+"/routes/"+strconv.Itoa(routeID)+"/geojson", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"LineString"`)

	rec = do(t, h, http.MethodGet, "/plans/"+plan.PlanID+"/routes/99/geojson", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/plans/"+plan.PlanID+"/routes/x/geojson", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePlanWithExplicitInput(t *testing.T) {
	body := `{
		"requests": [
			{"id": 1, "latitude": 40.71, "longitude": -74.00},
			{"id": 2, "latitude": 40.72, "longitude": -74.01},
			{"id": 3}
		],
		"vehicles": [{"id": 7, "capacity": 5, "vehicle_type": "special"}],
		"depot": {"latitude": 40.70, "longitude": -74.02}
	}`

	rec := do(t, newTestRouter(t, nil), http.MethodPost, "/plans", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var plan dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	require.Len(t, plan.Routes, 1)
	assert.Equal(t, int64(7), *plan.Routes[0].VehicleID)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, "INVALID_COORDINATE", plan.Warnings[0].Code)
	assert.Equal(t, 40.70, plan.Depot.Latitude)
}

func TestCreatePlanWithNestedVehicleLocationAndBadCoordinate(t *testing.T) {
	body := `{
		"requests": [
			{"id": 1, "latitude": 40.71, "longitude": -74.00, "requires_special_vehicle": true},
			{"id": 2, "latitude": "40.72", "longitude": -74.01},
			{"id": 3, "latitude": "n/a", "longitude": -74.00}
		],
		"vehicles": [
			{"id": 1, "capacity": 10, "type": "special", "current_location": {"latitude": 40.71, "longitude": -74.0}}
		]
	}`

	rec := do(t, newTestRouter(t, nil), http.MethodPost, "/plans", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var raw struct {
		Routes   []map[string]json.RawMessage `json:"routes"`
		Warnings []struct {
			Code string `json:"code"`
			ID   int64  `json:"id"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Routes, 1)
	assert.NotContains(t, raw.Routes[0], "stops")

	var stops []dto.StopResponse
	require.NoError(t, json.Unmarshal(raw.Routes[0]["requests"], &stops))
	assert.Len(t, stops, 2)

	require.Len(t, raw.Warnings, 1)
	assert.Equal(t, "INVALID_COORDINATE", raw.Warnings[0].Code)
	assert.Equal(t, int64(3), raw.Warnings[0].ID)

	var plan dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	// Capacity ratio 2/10, no special penalty, vehicle parked at the first stop.
	assert.InDelta(t, 0.2, plan.Routes[0].CompatibilityScore, 1e-9)
}

func TestCreatePlanErrors(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/plans", `{"requests": [], "vehicles": [{"id": 1}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"NO_CAPACITY"`)

	rec = do(t, h, http.MethodPost, "/plans", `{"unknown": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/plans", `{"depot": {"latitude": 95, "longitude": 0}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"INVALID_INPUT"`)

	rec = do(t, h, http.MethodGet, "/plans/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/plans/abc", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCreatePlanRateLimited(t *testing.T) {
	h := newTestRouter(t, rate.NewLimiter(rate.Limit(0.001), 1))

	rec := do(t, h, http.MethodPost, "/plans", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/plans", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestForecast(t *testing.T) {
	h := newTestRouter(t, nil)

	body := `{"history": [{"date": "2026-03-02", "requests": 10}, {"date": "2026-03-09", "requests": 20}]}`
	rec := do(t, h, http.MethodPost, "/forecast", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var f dto.ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	assert.InDelta(t, 15.0, f.NextWeekPrediction["Monday"], 1e-9)
	assert.Equal(t, "time_series_pattern", f.ModelType)

	rec = do(t, h, http.MethodPost, "/forecast", `{"history": [{"date": "March 2", "requests": 1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "history[0].date")

	rec = do(t, h, http.MethodPost, "/forecast", `{"history": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestRouter(t, nil), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}
