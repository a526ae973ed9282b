package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/apperr"
)

// MemoryStore implements every repository port in process memory. It backs
// the server when no database is configured, and the tests.
type MemoryStore struct {
	mu       sync.RWMutex
	requests []RequestSeed
	vehicles []domain.Vehicle
	history  []domain.DemandRecord
	plans    map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: map[string][]byte{}}
}

// Load replaces the store's requests, vehicles and history with the fixture's.
func (m *MemoryStore) Load(f *Fixture) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append([]RequestSeed(nil), f.Requests...)

	m.vehicles = make([]domain.Vehicle, 0, len(f.Vehicles))
	for _, v := range f.Vehicles {
		m.vehicles = append(m.vehicles, v.toDomain())
	}

	m.history = make([]domain.DemandRecord, 0, len(f.History))
	for _, h := range f.History {
		m.history = append(m.history, h.toDomain())
	}
	sort.Slice(m.history, func(i, j int) bool { return m.history[i].Date.Before(m.history[j].Date) })
}

func (m *MemoryStore) ListPendingRequests(ctx context.Context) ([]domain.ServiceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.ServiceRequest, 0, len(m.requests))
	for _, r := range m.requests {
		if r.pending() {
			out = append(out, r.toDomain())
		}
	}
	return out, nil
}

func (m *MemoryStore) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]domain.Vehicle{}, m.vehicles...), nil
}

// SavePlan stores an encoded copy so callers cannot mutate stored plans.
func (m *MemoryStore) SavePlan(ctx context.Context, plan *domain.OptimizationResult) error {
	if plan == nil || plan.PlanID == "" {
		return fmt.Errorf("save plan: plan id is required")
	}

	doc, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save plan %s: encode: %w", plan.PlanID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.PlanID] = doc
	return nil
}

func (m *MemoryStore) GetPlan(ctx context.Context, id string) (*domain.OptimizationResult, error) {
	m.mu.RLock()
	doc, ok := m.plans[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound("plan", id)
	}

	var plan domain.OptimizationResult
	if err := json.Unmarshal(doc, &plan); err != nil {
		return nil, fmt.Errorf("get plan %s: decode: %w", id, err)
	}
	return &plan, nil
}

func (m *MemoryStore) ListDemandHistory(ctx context.Context, since time.Time) ([]domain.DemandRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.DemandRecord, 0, len(m.history))
	for _, h := range m.history {
		if !h.Date.Before(since) {
			out = append(out, h)
		}
	}
	return out, nil
}
