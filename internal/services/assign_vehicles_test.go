package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/geo"
	"waste-route-service/internal/platform/apperr"
)

func routeAt(id int, stops int, lat, lon float64) domain.Route {
	r := domain.Route{RouteID: id}
	for i := 0; i < stops; i++ {
		r.Requests = append(r.Requests, req(int64(id*100+i), lat, lon))
	}
	return r
}

func vehicleAt(id int64, lat, lon float64) domain.Vehicle {
	return domain.Vehicle{ID: id, Capacity: 10, Location: &domain.GeoPoint{Lat: lat, Lon: lon}}
}

func TestMatchMaxScoreSquare(t *testing.T) {
	scores := mat.NewDense(2, 2, []float64{
		0.9, 0.1,
		0.2, 0.8,
	})

	assert.Equal(t, []int{0, 1}, MatchMaxScore(scores))
}

func TestMatchMaxScorePrefersTotalOverGreedy(t *testing.T) {
	// Greedy would take 0.9 for row 0 and leave row 1 with 0.1.
	scores := mat.NewDense(2, 2, []float64{
		0.9, 0.8,
		0.7, 0.1,
	})

	assert.Equal(t, []int{1, 0}, MatchMaxScore(scores))
}

func TestMatchMaxScoreRectangular(t *testing.T) {
	tall := mat.NewDense(3, 2, []float64{
		0.1, 0.2,
		0.9, 0.3,
		0.4, 0.8,
	})
	assert.Equal(t, []int{-1, 0, 1}, MatchMaxScore(tall))

	wide := mat.NewDense(1, 3, []float64{0.2, 0.7, 0.5})
	assert.Equal(t, []int{1}, MatchMaxScore(wide))
}

func TestMatchMaxScorePanicsOnNaN(t *testing.T) {
	scores := mat.NewDense(2, 2, []float64{0.5, math.NaN(), 0.1, 0.2})

	assert.Panics(t, func() { MatchMaxScore(scores) })
}

func TestCompatibilityScore(t *testing.T) {
	route := routeAt(0, 5, 0, 0)

	regular := domain.Vehicle{ID: 1, Capacity: 10}
	assert.InDelta(t, 0.5, CompatibilityScore(route, regular, geo.Euclidean), 1e-12)

	small := domain.Vehicle{ID: 2, Capacity: 2}
	assert.InDelta(t, 1.0, CompatibilityScore(route, small, geo.Euclidean), 1e-12)

	route.Requests[2].RequiresSpecialVehicle = true
	assert.InDelta(t, 0.25, CompatibilityScore(route, regular, geo.Euclidean), 1e-12)

	special := domain.Vehicle{ID: 3, Capacity: 10, Type: domain.VehicleTypeSpecial}
	assert.InDelta(t, 0.5, CompatibilityScore(route, special, geo.Euclidean), 1e-12)

	// 3-4-5 triangle: proximity factor 1/(1+5).
	far := vehicleAt(4, 3, 4)
	assert.InDelta(t, 0.25/6, CompatibilityScore(route, far, geo.Euclidean), 1e-12)
}

func TestAssignVehiclesByProximity(t *testing.T) {
	routes := []domain.Route{routeAt(0, 3, 0, 0), routeAt(1, 3, 10, 10)}
	vehicles := []domain.Vehicle{vehicleAt(21, 10, 10), vehicleAt(22, 0, 0)}

	plan, err := AssignVehicles(routes, vehicles, geo.Euclidean)
	require.NoError(t, err)
	require.Len(t, plan.Assignments, 2)

	byRoute := map[int]int64{}
	for _, a := range plan.Assignments {
		byRoute[a.Route.RouteID] = a.Vehicle.ID
	}
	assert.Equal(t, map[int]int64{0: 22, 1: 21}, byRoute)
	assert.Empty(t, plan.UnmatchedRoutes)
	assert.Empty(t, plan.UnmatchedVehicles)
	assert.InDelta(t, 0.6, plan.TotalCompatibility, 1e-12)
	assert.InDelta(t, 0.3, plan.AverageCompatibility, 1e-12)
}

func TestAssignVehiclesGivesSpecialRouteTheSpecialVehicle(t *testing.T) {
	special := routeAt(0, 4, 0, 0)
	special.Requests[0].RequiresSpecialVehicle = true
	regular := routeAt(1, 4, 0, 0)

	vehicles := []domain.Vehicle{
		{ID: 1, Capacity: 10, Type: "truck"},
		{ID: 2, Capacity: 10, Type: domain.VehicleTypeSpecial},
	}

	plan, err := AssignVehicles([]domain.Route{special, regular}, vehicles, geo.Euclidean)
	require.NoError(t, err)

	for _, a := range plan.Assignments {
		if a.Route.RouteID == 0 {
			assert.Equal(t, int64(2), a.Vehicle.ID)
		}
	}
}

func TestAssignVehiclesUnmatched(t *testing.T) {
	routes := []domain.Route{routeAt(0, 2, 0, 0), routeAt(1, 2, 5, 5), routeAt(2, 2, 9, 9)}

	plan, err := AssignVehicles(routes, []domain.Vehicle{vehicleAt(7, 5, 5)}, geo.Euclidean)
	require.NoError(t, err)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, 1, plan.Assignments[0].Route.RouteID)
	assert.Len(t, plan.UnmatchedRoutes, 2)

	vehicles := []domain.Vehicle{vehicleAt(1, 9, 9), vehicleAt(2, 0, 0), vehicleAt(3, 5, 5)}
	plan, err = AssignVehicles(routes[:1], vehicles, geo.Euclidean)
	require.NoError(t, err)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, int64(2), plan.Assignments[0].Vehicle.ID)
	assert.Len(t, plan.UnmatchedVehicles, 2)
}

func TestAssignVehiclesNoCapacity(t *testing.T) {
	_, err := AssignVehicles(nil, []domain.Vehicle{vehicleAt(1, 0, 0)}, geo.Euclidean)
	assert.True(t, apperr.Is(err, apperr.CodeNoCapacity))

	_, err = AssignVehicles([]domain.Route{routeAt(0, 1, 0, 0)}, nil, geo.Euclidean)
	assert.True(t, apperr.Is(err, apperr.CodeNoCapacity))
}
