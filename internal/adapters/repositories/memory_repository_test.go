package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/apperr"
)

func loadTestStore(t *testing.T) *MemoryStore {
	t.Helper()

	f, err := LoadFixture(filepath.Join("testdata", "fixture.yaml"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	store := NewMemoryStore()
	store.Load(f)
	return store
}

func TestMemoryStoreListPendingRequests(t *testing.T) {
	store := loadTestStore(t)

	requests, err := store.ListPendingRequests(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("pending requests = %d, want 3", len(requests))
	}
	if requests[0].Location == nil || requests[0].Location.Lat != 40.7033 {
		t.Fatalf("request 1 location = %v, want lat 40.7033", requests[0].Location)
	}
	if !requests[1].RequiresSpecialVehicle {
		t.Fatalf("request 2 should require a special vehicle")
	}
	if requests[2].Location != nil {
		t.Fatalf("request 3 location = %v, want nil", requests[2].Location)
	}
}

func TestMemoryStoreListVehicles(t *testing.T) {
	store := loadTestStore(t)

	vehicles, err := store.ListVehicles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vehicles) != 3 {
		t.Fatalf("vehicles = %d, want 3", len(vehicles))
	}
	if vehicles[2].Status != domain.VehicleMaintenance {
		t.Fatalf("vehicle 12 status = %q, want %q", vehicles[2].Status, domain.VehicleMaintenance)
	}
	if vehicles[1].Location != nil {
		t.Fatalf("vehicle 11 location = %v, want nil", vehicles[1].Location)
	}
}

func TestMemoryStorePlans(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	vid := int64(10)
	plan := &domain.OptimizationResult{
		PlanID: "p-1",
		Routes: []domain.Route{{RouteID: 0, VehicleID: &vid, TotalDistance: 1.5}},
	}
	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	plan.Routes[0].TotalDistance = 99

	got, err := store.GetPlan(ctx, "p-1")
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if got.Routes[0].TotalDistance != 1.5 {
		t.Fatalf("stored distance = %v, want 1.5", got.Routes[0].TotalDistance)
	}
	if got.Routes[0].VehicleID == nil || *got.Routes[0].VehicleID != 10 {
		t.Fatalf("stored vehicle = %v, want 10", got.Routes[0].VehicleID)
	}

	if _, err := store.GetPlan(ctx, "missing"); !apperr.Is(err, apperr.CodeNotFound) {
		t.Fatalf("missing plan error = %v, want NOT_FOUND", err)
	}
	if err := store.SavePlan(ctx, &domain.OptimizationResult{}); err == nil {
		t.Fatalf("expected error saving plan without id")
	}
}

func TestMemoryStoreListDemandHistory(t *testing.T) {
	store := loadTestStore(t)

	since := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	history, err := store.ListDemandHistory(context.Background(), since)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("history = %d records, want 2", len(history))
	}
	if history[0].Requests != 9 || history[1].Requests != 18 {
		t.Fatalf("history = %+v, want 9 then 18", history)
	}
}

func TestLoadFixtureRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	data := "vehicles:\n  - id: 1\n  - id: 1\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadFixture(path); err == nil {
		t.Fatalf("expected duplicate vehicle id error")
	}
}

func TestLoadFixtureRejectsBadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "date.yaml")
	data := "history:\n  - date: \"03/02/2026\"\n    requests: 4\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadFixture(path); err == nil {
		t.Fatalf("expected invalid date error")
	}
}
