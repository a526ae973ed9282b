package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"waste-route-service/internal/adapters/cache"
	"waste-route-service/internal/adapters/geocode"
	"waste-route-service/internal/adapters/queue"
	"waste-route-service/internal/adapters/repositories"
	"waste-route-service/internal/api"
	"waste-route-service/internal/config"
	"waste-route-service/internal/metrics"
	"waste-route-service/internal/platform/db"
	"waste-route-service/internal/platform/logger"
	"waste-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, RabbitMQ, ORS) behind ports and
// starts the HTTP server. Every adapter except storage is optional.
func main() {
	if err := godotenv.Load(); err != nil {
		logger.Get().Info().Msg("no .env file found (using environment variables)")
	}

	if err := run(); err != nil {
		logger.Get().Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Get("WRS_CONFIG", ""))
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging)
	log := logger.Component("server")

	opts, err := services.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	var database *sql.DB
	var st repositories.Store
	if cfg.Database.URL != "" {
		database, err = db.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := repositories.InitSchema(ctx, database); err != nil {
			return err
		}
		st = repositories.NewPostgresRepository(database)
		log.Info().Msg("using postgres storage")
	} else {
		mem := repositories.NewMemoryStore()
		if cfg.Server.FixturePath != "" {
			f, err := repositories.LoadFixture(cfg.Server.FixturePath)
			if err != nil {
				return err
			}
			mem.Load(f)
		}
		st = mem
		log.Warn().Str("fixture", cfg.Server.FixturePath).Msg("no database configured, using in-memory storage")
	}

	svc := services.NewPlanService(services.NewOptimizer(opts), st, st, st, st)

	if cfg.Redis.URL != "" {
		client, err := cache.DialRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func(c *redis.Client) { _ = c.Close() }(client)
		svc.WithCache(cache.NewRedisPlanCache(client, cfg.Redis.PlanTTL))
		log.Info().Dur("ttl", cfg.Redis.PlanTTL).Msg("plan cache enabled")
	}

	if cfg.RabbitMQ.URL != "" {
		pub, err := queue.DialRabbitPlanPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Error().Err(err).Msg("close rabbitmq publisher")
			}
		}()
		svc.WithPublisher(pub)
		log.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("plan events enabled")
	}

	if cfg.ORS.APIKey != "" {
		var addrCache geocode.AddressCache
		if database != nil {
			addrCache = cache.NewSQLGeocodeCache(database, cfg.ORS.CacheMaxAge)
		}
		g, err := geocode.NewORSGeocoder(geocode.Config{
			APIKey:            cfg.ORS.APIKey,
			BaseURL:           cfg.ORS.BaseURL,
			Country:           cfg.ORS.Country,
			Timeout:           cfg.ORS.Timeout,
			RequestsPerSecond: 1,
		}, addrCache)
		if err != nil {
			return err
		}
		svc.WithGeocoder(g)
		log.Info().Msg("ors geocoding enabled")
	}

	deps := api.Deps{
		Requests: st,
		Vehicles: st,
		Planner:  svc,
	}
	if cfg.Server.PlanRateLimit > 0 {
		deps.PlanLimiter = rate.NewLimiter(rate.Limit(cfg.Server.PlanRateLimit), max(cfg.Server.PlanBurst, 1))
	}
	if cfg.Metrics.Enabled {
		metrics.RegisterDefault()
		deps.Metrics = metrics.Registry
		deps.MetricsPath = cfg.Metrics.Path
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
