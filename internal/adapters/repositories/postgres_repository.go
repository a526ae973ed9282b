package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/apperr"
	"waste-route-service/internal/platform/obs"
)

// Postgres-backed implementation of the request, vehicle, plan and demand
// history ports.
type PostgresRepository struct{ DB *sql.DB }

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// Return all service requests still awaiting collection.
func (p *PostgresRepository) ListPendingRequests(ctx context.Context) (_ []domain.ServiceRequest, err error) {
	defer obs.Time(ctx, "repo.ListPendingRequests")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres repository: DB is nil")
	}

	query := `
	SELECT
		request_id,
		customer_name,
		address,
		service_type,
		latitude,
		longitude,
		requires_special_vehicle
	FROM service_requests
	WHERE status = $1
	ORDER BY request_id;
	`
	rows, err := p.DB.QueryContext(ctx, query, requestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list requests: query service_requests table: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.ServiceRequest, 0, 64)
	for rows.Next() {
		var r domain.ServiceRequest
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.CustomerName, &r.Address, &r.ServiceType, &lat, &lon, &r.RequiresSpecialVehicle); err != nil {
			return nil, fmt.Errorf("list requests: scan row: %w", err)
		}
		r.Location = nullPoint(lat, lon)
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requests: row iteration: %w", err)
	}

	return requests, nil
}

// Return every vehicle in the fleet.
func (p *PostgresRepository) ListVehicles(ctx context.Context) (_ []domain.Vehicle, err error) {
	defer obs.Time(ctx, "repo.ListVehicles")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres repository: DB is nil")
	}

	query := `
	SELECT
		vehicle_id,
		vehicle_number,
		capacity,
		vehicle_type,
		latitude,
		longitude,
		status
	FROM vehicles
	ORDER BY vehicle_id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, 16)
	for rows.Next() {
		var v domain.Vehicle
		var lat, lon sql.NullFloat64
		var status string
		if err := rows.Scan(&v.ID, &v.Number, &v.Capacity, &v.Type, &lat, &lon, &status); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		v.Location = nullPoint(lat, lon)
		v.Status = domain.VehicleStatus(status)
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

// Store a plan as a JSON document keyed by its id.
func (p *PostgresRepository) SavePlan(ctx context.Context, plan *domain.OptimizationResult) (err error) {
	defer obs.Time(ctx, "repo.SavePlan")(&err)

	if p.DB == nil {
		return errors.New("postgres repository: DB is nil")
	}
	if plan == nil || plan.PlanID == "" {
		return errors.New("save plan: plan id is required")
	}

	doc, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save plan %s: encode: %w", plan.PlanID, err)
	}

	query := `
	INSERT INTO route_plans (plan_id, created_at, result)
	VALUES ($1, $2, $3)
	ON CONFLICT (plan_id) DO UPDATE
	SET created_at = EXCLUDED.created_at,
		result = EXCLUDED.result;
	`
	if _, err := p.DB.ExecContext(ctx, query, plan.PlanID, plan.CreatedAt, doc); err != nil {
		return fmt.Errorf("save plan %s: insert: %w", plan.PlanID, err)
	}
	return nil
}

func (p *PostgresRepository) GetPlan(ctx context.Context, id string) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "repo.GetPlan")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres repository: DB is nil")
	}

	var doc []byte
	err = p.DB.QueryRowContext(ctx, `SELECT result FROM route_plans WHERE plan_id = $1;`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("plan", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: query: %w", id, err)
	}

	var plan domain.OptimizationResult
	if err := json.Unmarshal(doc, &plan); err != nil {
		return nil, fmt.Errorf("get plan %s: decode: %w", id, err)
	}
	return &plan, nil
}

// Return daily request counts on or after since, oldest first.
func (p *PostgresRepository) ListDemandHistory(ctx context.Context, since time.Time) (_ []domain.DemandRecord, err error) {
	defer obs.Time(ctx, "repo.ListDemandHistory")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres repository: DB is nil")
	}

	query := `
	SELECT day, requests
	FROM demand_history
	WHERE day >= $1
	ORDER BY day;
	`
	rows, err := p.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("list demand history: query demand_history table: %w", err)
	}
	defer rows.Close()

	history := make([]domain.DemandRecord, 0, 90)
	for rows.Next() {
		var rec domain.DemandRecord
		if err := rows.Scan(&rec.Date, &rec.Requests); err != nil {
			return nil, fmt.Errorf("list demand history: scan row: %w", err)
		}
		history = append(history, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list demand history: row iteration: %w", err)
	}

	return history, nil
}

func nullPoint(lat, lon sql.NullFloat64) *domain.GeoPoint {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &domain.GeoPoint{Lat: lat.Float64, Lon: lon.Float64}
}
