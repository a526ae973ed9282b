package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/metrics"
	"waste-route-service/internal/platform/apperr"
	"waste-route-service/internal/platform/logger"
	"waste-route-service/internal/platform/obs"
	"waste-route-service/internal/ports"
)

// PlanInput is one planning request. A nil Requests or Vehicles slice means
// "load from storage"; an empty non-nil slice is taken literally.
type PlanInput struct {
	Requests    []domain.ServiceRequest
	Vehicles    []domain.Vehicle
	Depot       *domain.GeoPoint
	Constraints domain.Constraints
}

// PlanService loads planning input, runs the optimizer and stores the result.
// Cache, publisher and geocoder are optional.
type PlanService struct {
	optimizer *Optimizer
	requests  ports.ServiceRequestRepository
	vehicles  ports.VehicleRepository
	plans     ports.PlanRepository
	history   ports.DemandHistoryRepository

	cache     ports.PlanCache
	publisher ports.PlanPublisher
	geocoder  ports.Geocoder

	now   func() time.Time
	newID func() string
}

func NewPlanService(
	optimizer *Optimizer,
	requests ports.ServiceRequestRepository,
	vehicles ports.VehicleRepository,
	plans ports.PlanRepository,
	history ports.DemandHistoryRepository,
) *PlanService {
	return &PlanService{
		optimizer: optimizer,
		requests:  requests,
		vehicles:  vehicles,
		plans:     plans,
		history:   history,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *PlanService) WithCache(c ports.PlanCache) *PlanService {
	s.cache = c
	return s
}

func (s *PlanService) WithPublisher(p ports.PlanPublisher) *PlanService {
	s.publisher = p
	return s
}

func (s *PlanService) WithGeocoder(g ports.Geocoder) *PlanService {
	s.geocoder = g
	return s
}

// Plan produces, stores and announces a new optimization result.
func (s *PlanService) Plan(ctx context.Context, in PlanInput) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "plan.Plan")(&err)
	log := logger.WithContext(ctx).With().Str("component", "plan_service").Logger()

	requests, vehicles, err := s.loadInput(ctx, in)
	if err != nil {
		return nil, err
	}

	requests = s.resolveLocations(ctx, requests)

	optimizer := s.optimizer
	if in.Depot != nil {
		if !in.Depot.Valid() {
			return nil, apperr.InvalidInput("depot", "latitude or longitude out of range")
		}
		optimizer = optimizer.WithDepot(*in.Depot)
	}

	// Non-finite coordinates cannot be encoded; such input skips the cache.
	key, ferr := Fingerprint(requests, vehicles, optimizer.Options(), in.Constraints)
	if ferr != nil {
		log.Debug().Err(ferr).Msg("input not cacheable")
	}

	if cached := s.cached(ctx, key); cached != nil {
		log.Info().Str("plan_id", cached.PlanID).Msg("serving plan from cache")
		return cached, nil
	}

	result, err := optimizer.Optimize(ctx, requests, vehicles, in.Constraints)
	if err != nil {
		return nil, err
	}
	result.PlanID = s.newID()
	result.CreatedAt = s.now().UTC()

	if err := s.plans.SavePlan(ctx, result); err != nil {
		return nil, fmt.Errorf("plan: save plan %s: %w", result.PlanID, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPlan(ctx, result); err != nil {
			log.Error().Err(err).Str("plan_id", result.PlanID).Msg("publish plan event")
		}
	}

	if s.cache != nil && key != "" {
		if err := s.cache.Put(ctx, key, result); err != nil {
			log.Error().Err(err).Str("plan_id", result.PlanID).Msg("cache plan")
		}
	}

	return result, nil
}

// GetPlan returns a previously stored plan.
func (s *PlanService) GetPlan(ctx context.Context, id string) (*domain.OptimizationResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.InvalidInput("id", "must not be empty")
	}

	plan, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get plan %s: %w", id, err)
	}
	return plan, nil
}

// Forecast predicts next week's demand. When history is nil the last days of
// stored history are used.
func (s *PlanService) Forecast(ctx context.Context, history []domain.DemandRecord, days int) (_ domain.DemandForecast, err error) {
	defer obs.Time(ctx, "plan.Forecast")(&err)

	if history == nil {
		if days <= 0 {
			return domain.DemandForecast{}, apperr.InvalidInput("days", "must be positive")
		}
		since := s.now().UTC().AddDate(0, 0, -days)
		history, err = s.history.ListDemandHistory(ctx, since)
		if err != nil {
			return domain.DemandForecast{}, fmt.Errorf("forecast: list demand history: %w", err)
		}
	}

	return PredictDemand(history)
}

// loadInput fills in whatever the caller left nil from the repositories.
// Stored vehicles that are not available are dropped.
func (s *PlanService) loadInput(ctx context.Context, in PlanInput) ([]domain.ServiceRequest, []domain.Vehicle, error) {
	requests, vehicles := in.Requests, in.Vehicles

	g, gctx := errgroup.WithContext(ctx)
	if requests == nil {
		g.Go(func() error {
			rs, err := s.requests.ListPendingRequests(gctx)
			if err != nil {
				return fmt.Errorf("plan: list pending requests: %w", err)
			}
			requests = rs
			return nil
		})
	}
	if vehicles == nil {
		g.Go(func() error {
			vs, err := s.vehicles.ListVehicles(gctx)
			if err != nil {
				return fmt.Errorf("plan: list vehicles: %w", err)
			}
			vehicles = availableOnly(vs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return requests, vehicles, nil
}

func availableOnly(vs []domain.Vehicle) []domain.Vehicle {
	out := make([]domain.Vehicle, 0, len(vs))
	for _, v := range vs {
		if v.Available() {
			out = append(out, v)
		}
	}
	return out
}

// resolveLocations geocodes requests that have an address but no usable
// coordinates. Failures leave the request untouched so the optimizer reports it.
func (s *PlanService) resolveLocations(ctx context.Context, requests []domain.ServiceRequest) []domain.ServiceRequest {
	if s.geocoder == nil {
		return requests
	}

	var addresses []string
	for _, r := range requests {
		if !r.HasLocation() && strings.TrimSpace(r.Address) != "" {
			addresses = append(addresses, r.Address)
		}
	}
	if len(addresses) == 0 {
		return requests
	}

	found, err := s.geocoder.Geocode(ctx, addresses)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Int("addresses", len(addresses)).Msg("geocode requests")
		return requests
	}

	out := make([]domain.ServiceRequest, len(requests))
	copy(out, requests)
	for i, r := range out {
		if r.HasLocation() {
			continue
		}
		if p, ok := found[r.Address]; ok && p.Valid() {
			out[i].Location = &p
		}
	}
	return out
}

func (s *PlanService) cached(ctx context.Context, key string) *domain.OptimizationResult {
	if s.cache == nil || key == "" {
		return nil
	}

	plan, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.PlanCacheLookups.WithLabelValues("error").Inc()
		logger.WithContext(ctx).Error().Err(err).Msg("plan cache lookup")
		return nil
	case !ok:
		metrics.PlanCacheLookups.WithLabelValues("miss").Inc()
		return nil
	default:
		metrics.PlanCacheLookups.WithLabelValues("hit").Inc()
		return plan
	}
}

// Fingerprint hashes everything that influences an optimization result.
// Equal fingerprints imply equal results because the optimizer is deterministic.
func Fingerprint(
	requests []domain.ServiceRequest,
	vehicles []domain.Vehicle,
	opts Options,
	constraints domain.Constraints,
) (string, error) {
	payload := struct {
		Requests    []domain.ServiceRequest `json:"requests"`
		Vehicles    []domain.Vehicle        `json:"vehicles"`
		Options     Options                 `json:"options"`
		Constraints domain.Constraints      `json:"constraints"`
	}{requests, vehicles, opts, constraints}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(b), 16), nil
}
