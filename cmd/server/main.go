package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"represent/internal/cache"
	"represent/internal/divisions/resolver"
	"represent/internal/geocode"
	"represent/internal/lookup"
	lookupHandler "represent/internal/lookup/handler"
	lookupMetrics "represent/internal/lookup/metrics"
	officialsHandler "represent/internal/officials/handler"
	officialsService "represent/internal/officials/service"
	officialsStore "represent/internal/officials/store"
	"represent/internal/platform/config"
	"represent/internal/platform/httpserver"
	"represent/internal/platform/logger"
	"represent/internal/platform/middleware"
	"represent/internal/platform/ratelimit"
	platformRedis "represent/internal/platform/redis"
	"represent/internal/providers"
	"represent/internal/providers/civicstore"
	"represent/internal/providers/openstates"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// run wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
// Returning an error (rather than exiting) lets deferred cleanup run.
func run(log *slog.Logger) error {
	cfg := config.FromEnv()

	ttl := cache.TTLPolicy{
		Divisions:       cfg.DivisionsTTL,
		Representatives: cfg.RepresentativesTTL,
	}

	// Cache store: Redis when configured, in-process LRU otherwise.
	var store cache.Store
	redisClient, err := platformRedis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis connection: %w", err)
	}
	if redisClient != nil {
		store = cache.NewRedis(redisClient.Client)
		defer redisClient.Close()
	} else {
		store = cache.NewMemory(4096, cfg.DivisionsTTL)
	}

	divisionResolver, err := resolver.New(
		resolver.NewHTTPClient(cfg.Divisions), store, ttl,
		resolver.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("wire division resolver: %w", err)
	}

	registry := providers.NewRegistry()

	stateAdapter, err := openstates.New(
		openstates.NewHTTPClient(cfg.OpenStates), store, ttl,
		openstates.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("wire state adapter: %w", err)
	}
	if err := registry.Register(stateAdapter); err != nil {
		return fmt.Errorf("register state adapter: %w", err)
	}

	// Curated local officials need a database; without one, local coverage
	// warnings are emitted by the aggregator instead.
	var pgStore *officialsStore.PostgresStore
	if cfg.Postgres.URL != "" {
		pgStore, err = officialsStore.NewPostgres(context.Background(), cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("postgres connection: %w", err)
		}
		defer pgStore.Close()

		localAdapter, err := civicstore.New(pgStore, civicstore.WithLogger(log))
		if err != nil {
			return fmt.Errorf("wire local adapter: %w", err)
		}
		if err := registry.Register(localAdapter); err != nil {
			return fmt.Errorf("register local adapter: %w", err)
		}
	}

	aggregatorOpts := []lookup.Option{
		lookup.WithLogger(log),
		lookup.WithMetrics(lookupMetrics.New()),
		lookup.WithTimeout(cfg.LookupTimeout),
	}
	if geocoder := geocode.NewHTTPClient(cfg.Geocoder); geocoder != nil {
		aggregatorOpts = append(aggregatorOpts, lookup.WithGeocoder(geocoder))
	}
	aggregator, err := lookup.New(divisionResolver, registry, aggregatorOpts...)
	if err != nil {
		return fmt.Errorf("wire aggregator: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))

	// Rate limiting covers the lookup surface only; health and metrics stay
	// open for probes and scrapes.
	r.Group(func(r chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			limiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
			r.Use(ratelimit.Middleware(limiter))
		}
		lookupHandler.New(aggregator, log).Register(r)
	})

	if pgStore != nil {
		svc, err := officialsService.New(pgStore, officialsService.WithLogger(log))
		if err != nil {
			return fmt.Errorf("wire officials service: %w", err)
		}
		officialsHandler.New(svc, log).Register(r)
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthz(redisClient, pgStore))

	srv := httpserver.New(cfg.Addr, r)
	log.Info("starting represent", "addr", cfg.Addr)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// healthz reports liveness plus the health of configured backing services.
func healthz(redisClient *platformRedis.Client, pgStore *officialsStore.PostgresStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if pgStore != nil {
			if err := pgStore.Health(ctx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
