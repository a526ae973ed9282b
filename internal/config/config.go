// Package config loads service settings from defaults, an optional YAML or
// JSON file and WRS_ prefixed environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"waste-route-service/internal/geo"
	"waste-route-service/internal/platform/logger"
)

// EnvPrefix prefixes every environment override; "__" separates levels,
// e.g. WRS_OPTIMIZER__SEED=7.
const EnvPrefix = "WRS_"

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	RabbitMQ  RabbitMQConfig  `json:"rabbitmq"`
	ORS       ORSConfig       `json:"ors"`
	Depot     DepotConfig     `json:"depot"`
	Optimizer OptimizerConfig `json:"optimizer"`
	Logging   logger.Config   `json:"logging"`
	Metrics   MetricsConfig   `json:"metrics"`
}

type ServerConfig struct {
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	// PlanRateLimit is the sustained POST /plans rate per second; 0 disables limiting.
	PlanRateLimit float64 `json:"plan_rate_limit"`
	PlanBurst     int     `json:"plan_burst"`
	// FixturePath seeds the in-memory store when no database is configured.
	FixturePath string `json:"fixture_path"`
}

type DatabaseConfig struct {
	URL             string        `json:"url"`
	MaxOpenConns    int           `json:"max_open_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL     string        `json:"url"`
	PlanTTL time.Duration `json:"plan_ttl"`
}

type RabbitMQConfig struct {
	URL      string `json:"url"`
	Exchange string `json:"exchange"`
}

type ORSConfig struct {
	APIKey  string        `json:"api_key"`
	BaseURL string        `json:"base_url"`
	Country string        `json:"country"`
	Timeout time.Duration `json:"timeout"`

	// CacheMaxAge expires geocode cache rows; zero keeps them forever.
	CacheMaxAge time.Duration `json:"cache_max_age"`
}

// DepotConfig is the yard every route starts from.
type DepotConfig struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type OptimizerConfig struct {
	Seed           uint64  `json:"seed"`
	MaxIterations  int     `json:"max_iterations"`
	Restarts       int     `json:"restarts"`
	Tolerance      float64 `json:"tolerance"`
	DistanceMetric string  `json:"distance_metric"`

	KmPerUnit           float64 `json:"km_per_unit"`
	AverageSpeedKmh     float64 `json:"average_speed_kmh"`
	ServiceHoursPerStop float64 `json:"service_hours_per_stop"`

	DistanceImprovement float64 `json:"distance_improvement"`
	FuelPerUnit         float64 `json:"fuel_per_unit"`
	TimeImprovement     float64 `json:"time_improvement"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:          8080,
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  60 * time.Second,
			PlanRateLimit: 5,
			PlanBurst:     10,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{PlanTTL: 15 * time.Minute},
		RabbitMQ: RabbitMQConfig{
			Exchange: "route.plans",
		},
		ORS: ORSConfig{
			BaseURL:     "https://api.openrouteservice.org",
			Country:     "US",
			Timeout:     10 * time.Second,
			CacheMaxAge: 30 * 24 * time.Hour,
		},
		Depot: DepotConfig{Lat: 40.7128, Lon: -74.0060},
		Optimizer: OptimizerConfig{
			Seed:                42,
			MaxIterations:       300,
			Restarts:            10,
			Tolerance:           1e-4,
			DistanceMetric:      "euclidean",
			KmPerUnit:           111,
			AverageSpeedKmh:     30,
			ServiceHoursPerStop: 0.25,
			DistanceImprovement: 0.2,
			FuelPerUnit:         0.1,
			TimeImprovement:     0.15,
		},
		Logging: logger.DefaultConfig(),
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// Load reads path (may be empty) and environment overrides on top of Default.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("load config: unsupported format %q", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load config: environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate rejects settings the optimizer cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if _, err := geo.ParseMetric(c.Optimizer.DistanceMetric); err != nil {
		return fmt.Errorf("config: optimizer.distance_metric: %w", err)
	}
	if c.Optimizer.MaxIterations <= 0 {
		return fmt.Errorf("config: optimizer.max_iterations must be positive")
	}
	if c.Optimizer.Restarts <= 0 {
		return fmt.Errorf("config: optimizer.restarts must be positive")
	}
	if c.Optimizer.AverageSpeedKmh <= 0 {
		return fmt.Errorf("config: optimizer.average_speed_kmh must be positive")
	}
	if c.Optimizer.KmPerUnit <= 0 {
		return fmt.Errorf("config: optimizer.km_per_unit must be positive")
	}
	if c.Optimizer.ServiceHoursPerStop < 0 {
		return fmt.Errorf("config: optimizer.service_hours_per_stop must not be negative")
	}
	if c.Depot.Lat < -90 || c.Depot.Lat > 90 || c.Depot.Lon < -180 || c.Depot.Lon > 180 {
		return fmt.Errorf("config: depot (%v, %v) is not a valid coordinate", c.Depot.Lat, c.Depot.Lon)
	}
	return nil
}

// Get returns the environment value for key or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
