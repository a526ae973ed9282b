package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema owned by the route service.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRequestsQuery := `
	CREATE TABLE IF NOT EXISTS service_requests (
		request_id BIGINT PRIMARY KEY,
		customer_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		service_type TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		requires_special_vehicle BOOLEAN NOT NULL DEFAULT FALSE,
		status TEXT NOT NULL DEFAULT 'pending'
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_id BIGINT PRIMARY KEY,
		vehicle_number TEXT NOT NULL DEFAULT '',
		capacity DOUBLE PRECISION NOT NULL DEFAULT 0,
		vehicle_type TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		status TEXT NOT NULL DEFAULT 'available'
	);
	`

	createHistoryQuery := `
	CREATE TABLE IF NOT EXISTS demand_history (
		day DATE PRIMARY KEY,
		requests DOUBLE PRECISION NOT NULL
	);
	`

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS route_plans (
		plan_id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		result JSONB NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		resolved_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_service_requests_status
	ON service_requests(status);
	`

	statements := []string{
		createRequestsQuery,
		createVehiclesQuery,
		createHistoryQuery,
		createPlansQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
