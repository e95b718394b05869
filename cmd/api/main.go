// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/routing"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/migrations"
	"github.com/pkordes/trip-planner/spec"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.AutoMigrate {
		if err := migrate(context.Background(), pool); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// --- Routing ----------------------------------------------------------
	resolver, closeResolver, err := newResolver(cfg, logger)
	if err != nil {
		slog.Error("failed to configure location resolver", "error", err)
		os.Exit(1)
	}
	defer closeResolver()

	// --- Services ---------------------------------------------------------
	store := repo.NewStore(pool)
	trips := service.NewTripService(store.Trips)
	places := service.NewPlaceService(store.Places)
	itineraries := service.NewItineraryService(store, repo.NewTransactor(pool), resolver, logger,
		service.WithDayStart(cfg.DayStart))

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	handler.NewServer(trips, places, itineraries).Routes(r)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for a full-day reorder, which resolves every leg.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations through a database/sql view of the pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration_ms", res.Duration.Milliseconds())
	}
	return nil
}

// newResolver picks the Distance Matrix resolver when an API key is set and
// the offline estimator otherwise, then puts the Redis cache in front when
// REDIS_URL is configured. The returned func releases the Redis client.
func newResolver(cfg config.Config, logger *slog.Logger) (routing.Resolver, func(), error) {
	var resolver routing.Resolver = routing.NewEstimator()
	if cfg.GoogleMapsAPIKey != "" {
		google, err := routing.NewGoogleResolver(cfg.GoogleMapsAPIKey, routing.WithTimeout(cfg.RoutingTimeout))
		if err != nil {
			return nil, nil, err
		}
		resolver = google
		slog.Info("location resolver: google distance matrix")
	} else {
		slog.Warn("GOOGLE_MAPS_API_KEY not set; using straight-line estimates")
	}

	if cfg.RedisURL == "" {
		return resolver, func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opts)
	slog.Info("route cache enabled", "addr", opts.Addr, "ttl", cfg.RouteCacheTTL.String())
	return routing.NewCachedResolver(resolver, rdb, cfg.RouteCacheTTL, logger), func() { _ = rdb.Close() }, nil
}
