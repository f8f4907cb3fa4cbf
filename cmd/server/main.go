package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/antigravity/ourroad-optimizer/internal/config"
	"github.com/antigravity/ourroad-optimizer/internal/httpapi"
	"github.com/antigravity/ourroad-optimizer/internal/logging"
	"github.com/antigravity/ourroad-optimizer/internal/optimize"
	"github.com/antigravity/ourroad-optimizer/internal/providers"
	"github.com/antigravity/ourroad-optimizer/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New("server", logging.LevelInfo)

	tripStore, closeStore := buildStore(cfg, log)
	defer closeStore()

	ps := buildProviderSet(cfg, log)
	h := httpapi.NewHandler(tripStore, ps, cfg, log)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"trip_route_optimizer"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api/v1", h.Routes())

	log.Info("server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Error("server exited: %v", err)
	}
}

// buildStore wires a PostgresTripStore when DATABASE_URL is configured,
// falling back to the in-memory store otherwise (the common case for a
// quick local run or a CI test).
func buildStore(cfg *config.Config, log *logging.Logger) (store.TripStore, func()) {
	if cfg.DatabaseURL == "" {
		log.Info("no DATABASE_URL configured, using in-memory trip store")
		return store.NewInMemoryTripStore(), func() {}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Error("unable to parse DATABASE_URL, falling back to in-memory store: %v", err)
		return store.NewInMemoryTripStore(), func() {}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Error("unable to create connection pool, falling back to in-memory store: %v", err)
		return store.NewInMemoryTripStore(), func() {}
	}
	if err := pool.Ping(context.Background()); err != nil {
		log.Error("unable to reach database, falling back to in-memory store: %v", err)
		pool.Close()
		return store.NewInMemoryTripStore(), func() {}
	}

	pg := store.NewPostgresTripStore(pool)
	if err := pg.EnsureSchema(context.Background()); err != nil {
		log.Error("unable to ensure schema, falling back to in-memory store: %v", err)
		pool.Close()
		return store.NewInMemoryTripStore(), func() {}
	}

	log.Info("connected to Postgres trip store")
	return pg, pool.Close
}

// buildProviderSet wires HTTP-backed routing providers when their base
// URLs are configured, and always supplies LocalScheduleTransitProvider
// as the transit fallback so the pipeline never runs provider-free.
func buildProviderSet(cfg *config.Config, log *logging.Logger) optimize.ProviderSet {
	ps := optimize.ProviderSet{
		Transit: providers.NewLocalScheduleTransitProvider(),
	}

	if cfg.CarProviderBaseURL != "" {
		ps.Car = providers.NewHTTPCarProvider(cfg.CarProviderBaseURL, cfg.CarProviderAPIKey)
	}
	if cfg.WalkingProviderBaseURL != "" {
		ps.Walking = providers.NewHTTPWalkingProvider(cfg.WalkingProviderBaseURL, cfg.WalkingProviderAPIKey)
	}
	if cfg.TransitProviderBaseURL != "" {
		ps.Transit = providers.NewHTTPTransitProvider(cfg.TransitProviderBaseURL, cfg.TransitProviderAPIKey)
		log.Info("using HTTP transit provider at %s", cfg.TransitProviderBaseURL)
	} else {
		log.Info("no transit provider configured, using local schedule fallback")
	}

	return ps
}
