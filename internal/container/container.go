package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/wearcast/wearcast-api/app/db"
	"github.com/wearcast/wearcast-api/config"
	"github.com/wearcast/wearcast-api/internal/api/advice"
	generativeAI "github.com/wearcast/wearcast-api/internal/api/generative_ai"
	"github.com/wearcast/wearcast-api/internal/api/location"
	"github.com/wearcast/wearcast-api/internal/api/store"
	"github.com/wearcast/wearcast-api/internal/api/weather"
	"github.com/wearcast/wearcast-api/internal/app/controller"
)

// Container holds all application dependencies.
type Container struct {
	Config            *config.Config
	Logger            *slog.Logger
	Pool              *pgxpool.Pool
	Store             store.Store
	Fetcher           weather.Fetcher
	Generator         advice.Generator
	Resolver          location.Resolver
	Controller        *controller.Controller
	ControllerHandler *controller.HandlerImpl
}

// NewContainer wires config → store → provider clients → controller →
// handler. The Postgres-backed store is the default; storeBackend "memory"
// skips the database entirely for local development.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if cfg.App.StoreBackend == "memory" {
		c.Store = store.NewMemoryStore()
		logger.Info("Using in-memory city store")
	} else {
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to generate database config: %w", err)
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		if !database.WaitForDB(ctx, pool, logger) {
			pool.Close()
			return nil, fmt.Errorf("database not ready after waiting")
		}
		c.Pool = pool
		c.Store = store.NewPostgresStore(pool, logger)
	}

	c.Fetcher = weather.NewFetcher(weather.ProviderConfig{
		Endpoint: cfg.Providers.Weather.Endpoint,
		APIKey:   cfg.Providers.Weather.APIKey,
	}, http.DefaultClient, logger)

	aiClient, err := generativeAI.NewAIClient(ctx, generativeAI.ClientConfig{
		APIKey: cfg.Providers.Gemini.APIKey,
		Model:  cfg.Providers.Gemini.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generative client: %w", err)
	}
	c.Generator = advice.NewGenerator(aiClient, logger)

	c.Resolver = location.NewResolver(location.GeoConfig{
		Endpoint: cfg.Providers.Weather.GeoEndpoint,
		APIKey:   cfg.Providers.Weather.APIKey,
	}, location.StaticPositionSource{
		Position: location.Position{
			Latitude:  cfg.App.Latitude,
			Longitude: cfg.App.Longitude,
		},
	}, http.DefaultClient, logger)

	c.Controller = controller.NewController(c.Fetcher, c.Generator, c.Resolver, c.Store, controller.Options{
		DefaultCity: cfg.App.DefaultCity,
		Debounce:    cfg.App.Debounce,
	}, logger)
	c.ControllerHandler = controller.NewHandler(c.Controller, logger)

	return c, nil
}

// Close releases held resources.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
