package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"waste-route-service/internal/domain"
)

const requestStatusPending = "pending"

// Fixture is the YAML seed format used by `routectl seed` and by the server's
// in-memory mode.
type Fixture struct {
	Requests []RequestSeed `yaml:"requests"`
	Vehicles []VehicleSeed `yaml:"vehicles"`
	History  []HistorySeed `yaml:"history"`
}

type RequestSeed struct {
	ID                     int64    `yaml:"id"`
	CustomerName           string   `yaml:"customer_name"`
	Address                string   `yaml:"address"`
	ServiceType            string   `yaml:"service_type"`
	Latitude               *float64 `yaml:"latitude"`
	Longitude              *float64 `yaml:"longitude"`
	RequiresSpecialVehicle bool     `yaml:"requires_special_vehicle"`
	Status                 string   `yaml:"status"`
}

type VehicleSeed struct {
	ID        int64    `yaml:"id"`
	Number    string   `yaml:"number"`
	Capacity  float64  `yaml:"capacity"`
	Type      string   `yaml:"type"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
	Status    string   `yaml:"status"`
}

type HistorySeed struct {
	Date     string  `yaml:"date"`
	Requests float64 `yaml:"requests"`
}

// Read and validate a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture: read %q: %w", path, err)
	}

	var f Fixture
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("load fixture: parse yaml: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	return &f, nil
}

// Validate checks identifiers and dates. Coordinates are not checked here:
// bad ones are reported by the optimizer as warnings.
func (f *Fixture) Validate() error {
	seen := map[int64]struct{}{}
	for i, r := range f.Requests {
		if r.ID <= 0 {
			return fmt.Errorf("request at index %d: invalid id %d", i+1, r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("request at index %d: duplicate id %d", i+1, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	seen = map[int64]struct{}{}
	for i, v := range f.Vehicles {
		if v.ID <= 0 {
			return fmt.Errorf("vehicle at index %d: invalid id %d", i+1, v.ID)
		}
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("vehicle at index %d: duplicate id %d", i+1, v.ID)
		}
		seen[v.ID] = struct{}{}
	}

	for i, h := range f.History {
		if _, err := parseDay(h.Date); err != nil {
			return fmt.Errorf("history at index %d: %w", i+1, err)
		}
	}
	return nil
}

func (r RequestSeed) pending() bool {
	s := strings.TrimSpace(r.Status)
	return s == "" || s == requestStatusPending
}

func (r RequestSeed) toDomain() domain.ServiceRequest {
	return domain.ServiceRequest{
		ID:                     r.ID,
		Location:               point(r.Latitude, r.Longitude),
		CustomerName:           r.CustomerName,
		Address:                r.Address,
		ServiceType:            r.ServiceType,
		RequiresSpecialVehicle: r.RequiresSpecialVehicle,
	}
}

func (v VehicleSeed) toDomain() domain.Vehicle {
	return domain.Vehicle{
		ID:       v.ID,
		Number:   v.Number,
		Capacity: v.Capacity,
		Type:     v.Type,
		Location: point(v.Latitude, v.Longitude),
		Status:   domain.VehicleStatus(v.Status),
	}
}

func (h HistorySeed) toDomain() domain.DemandRecord {
	d, _ := parseDay(h.Date)
	return domain.DemandRecord{Date: d, Requests: h.Requests}
}

func parseDay(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// point returns nil unless both halves of a coordinate are present.
func point(lat, lon *float64) *domain.GeoPoint {
	if lat == nil || lon == nil {
		return nil
	}
	return &domain.GeoPoint{Lat: *lat, Lon: *lon}
}

// Populate the database with fixture data. Existing rows with the same keys
// are overwritten.
func SeedFromFixture(ctx context.Context, db *sql.DB, f *Fixture) error {
	if db == nil {
		return errors.New("seed fixture: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed fixture: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	requestStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO service_requests (
		request_id, customer_name, address, service_type,
		latitude, longitude, requires_special_vehicle, status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (request_id) DO UPDATE
	SET customer_name = EXCLUDED.customer_name,
		address = EXCLUDED.address,
		service_type = EXCLUDED.service_type,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		requires_special_vehicle = EXCLUDED.requires_special_vehicle,
		status = EXCLUDED.status;
	`)
	if err != nil {
		return fmt.Errorf("seed fixture: prepare request insert: %w", err)
	}
	defer requestStmt.Close()

	for _, r := range f.Requests {
		status := r.Status
		if strings.TrimSpace(status) == "" {
			status = requestStatusPending
		}
		if _, err := requestStmt.ExecContext(ctx,
			r.ID, r.CustomerName, r.Address, r.ServiceType,
			r.Latitude, r.Longitude, r.RequiresSpecialVehicle, status,
		); err != nil {
			return fmt.Errorf("seed fixture: insert request_id=%d: %w", r.ID, err)
		}
	}

	vehicleStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO vehicles (
		vehicle_id, vehicle_number, capacity, vehicle_type,
		latitude, longitude, status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (vehicle_id) DO UPDATE
	SET vehicle_number = EXCLUDED.vehicle_number,
		capacity = EXCLUDED.capacity,
		vehicle_type = EXCLUDED.vehicle_type,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		status = EXCLUDED.status;
	`)
	if err != nil {
		return fmt.Errorf("seed fixture: prepare vehicle insert: %w", err)
	}
	defer vehicleStmt.Close()

	for _, v := range f.Vehicles {
		status := v.Status
		if strings.TrimSpace(status) == "" {
			status = string(domain.VehicleAvailable)
		}
		if _, err := vehicleStmt.ExecContext(ctx,
			v.ID, v.Number, v.Capacity, v.Type, v.Latitude, v.Longitude, status,
		); err != nil {
			return fmt.Errorf("seed fixture: insert vehicle_id=%d: %w", v.ID, err)
		}
	}

	historyStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO demand_history (day, requests)
	VALUES ($1, $2)
	ON CONFLICT (day) DO UPDATE
	SET requests = EXCLUDED.requests;
	`)
	if err != nil {
		return fmt.Errorf("seed fixture: prepare history insert: %w", err)
	}
	defer historyStmt.Close()

	for _, h := range f.History {
		rec := h.toDomain()
		if _, err := historyStmt.ExecContext(ctx, rec.Date, rec.Requests); err != nil {
			return fmt.Errorf("seed fixture: insert history day=%s: %w", h.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fixture: commit tx: %w", err)
	}

	return nil
}
