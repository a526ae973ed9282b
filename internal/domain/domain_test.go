package domain

import (
	"math"
	"testing"
)

func TestVehicleEffectiveCapacity(t *testing.T) {
	if got := (Vehicle{ID: 1}).EffectiveCapacity(); got != DefaultVehicleCapacity {
		t.Fatalf("capacity = %v, want %v", got, DefaultVehicleCapacity)
	}
	if got := (Vehicle{ID: 1, Capacity: 4}).EffectiveCapacity(); got != 4 {
		t.Fatalf("capacity = %v, want 4", got)
	}
}

func TestVehicleAvailable(t *testing.T) {
	cases := []struct {
		status VehicleStatus
		want   bool
	}{
		{"", true},
		{VehicleAvailable, true},
		{VehicleInUse, false},
		{VehicleMaintenance, false},
		{VehicleOutOfService, false},
	}
	for _, c := range cases {
		if got := (Vehicle{Status: c.status}).Available(); got != c.want {
			t.Errorf("status %q: available = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestGeoPointValid(t *testing.T) {
	if !(GeoPoint{Lat: 40.7, Lon: -74}).Valid() {
		t.Fatal("expected valid point")
	}
	for _, p := range []GeoPoint{
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: math.Inf(1)},
		{Lat: 91, Lon: 0},
		{Lat: 0, Lon: -181},
	} {
		if p.Valid() {
			t.Errorf("%v should be invalid", p)
		}
	}
}

func TestRouteDerivedFields(t *testing.T) {
	empty := Route{}
	if empty.StartLocation() != nil || empty.Demand() != 0 || empty.RequiresSpecialVehicle() {
		t.Fatalf("empty route derived fields incorrect: %+v", empty)
	}

	a := &GeoPoint{Lat: 1, Lon: 2}
	r := Route{Requests: []ServiceRequest{
		{ID: 1, Location: a},
		{ID: 2, Location: &GeoPoint{Lat: 3, Lon: 4}, RequiresSpecialVehicle: true},
	}}
	if r.StartLocation() != a {
		t.Errorf("start location = %v, want %v", r.StartLocation(), a)
	}
	if r.Demand() != 2 {
		t.Errorf("demand = %d, want 2", r.Demand())
	}
	if !r.RequiresSpecialVehicle() {
		t.Error("route should require a special vehicle")
	}
}
