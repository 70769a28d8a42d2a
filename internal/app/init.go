package app

import (
	"context"
	"fmt"

	"github.com/nurlyy/customer_data/internal/api/endpoint"
	mw "github.com/nurlyy/customer_data/internal/api/middleware"
	"github.com/nurlyy/customer_data/internal/repository"
	"github.com/nurlyy/customer_data/internal/repository/file"
	"github.com/nurlyy/customer_data/internal/repository/postgres"
	"github.com/nurlyy/customer_data/internal/service"
	"github.com/nurlyy/customer_data/pkg/cache"
	"github.com/nurlyy/customer_data/pkg/config"
	"github.com/nurlyy/customer_data/pkg/database"
	"github.com/nurlyy/customer_data/pkg/logger"
	"github.com/nurlyy/customer_data/pkg/validator"
)

// Application holds every component shared by the entrypoints
type Application struct {
	Config          *config.Config
	Logger          logger.Logger
	Validator       *validator.CustomValidator
	Postgres        *database.Postgres
	Redis           *cache.Redis
	CustomerService *service.CustomerService
	Endpoint        *endpoint.Endpoint
}

// NewApplication loads the customer snapshot and builds the listing endpoint
func NewApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*Application, error) {
	app := &Application{
		Config:    cfg,
		Logger:    log,
		Validator: validator.NewValidator(),
	}

	source, err := app.initSource(ctx)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize dataset source: %w", err)
	}

	if err := app.loadSnapshot(ctx, source); err != nil {
		app.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		app.Redis, err = cache.NewRedis(ctx, &cfg.Redis, log)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	log.Info("Application initialized", map[string]interface{}{
		"dataset_source": cfg.Dataset.Source,
		"customers":      app.CustomerService.Size(),
		"redis":          app.Redis != nil,
	})

	return app, nil
}

// NewWithSource builds the application around an already constructed source
func NewWithSource(ctx context.Context, cfg *config.Config, log logger.Logger, source repository.CustomerSource) (*Application, error) {
	app := &Application{
		Config:    cfg,
		Logger:    log,
		Validator: validator.NewValidator(),
	}
	if err := app.loadSnapshot(ctx, source); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *Application) loadSnapshot(ctx context.Context, source repository.CustomerSource) error {
	customers, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}

	app.CustomerService, err = service.NewCustomerService(customers, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to build customer snapshot: %w", err)
	}

	app.Endpoint = endpoint.New(app.CustomerService, app.Validator, app.Logger)
	return nil
}

func (app *Application) initSource(ctx context.Context) (repository.CustomerSource, error) {
	switch app.Config.Dataset.Source {
	case config.DatasetSourcePostgres:
		pg, err := database.NewPostgres(ctx, &app.Config.Database, app.Logger)
		if err != nil {
			return nil, err
		}
		app.Postgres = pg
		return postgres.NewCustomerRepository(pg.DB, app.Validator, app.Logger), nil
	case config.DatasetSourceFile:
		return file.NewCustomerRepository(app.Config.Dataset.Path, app.Validator, app.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported dataset source %q", app.Config.Dataset.Source)
	}
}

// RateLimiter returns the request rate limiter, or nil when rate limiting is off.
// Counters are shared through Redis when it is connected.
func (app *Application) RateLimiter() *mw.RateLimiter {
	if !app.Config.RateLimit.Enabled {
		return nil
	}

	var shared mw.WindowCounter
	if app.Redis != nil {
		shared = app.Redis
	}

	return mw.NewRateLimiter(mw.RateLimiterConfig{
		Limit:    app.Config.RateLimit.Limit,
		Period:   app.Config.RateLimit.Period,
		Strategy: mw.RateLimitStrategy(app.Config.RateLimit.Strategy),
	}, shared, app.Logger)
}

// Close closes every connection to external services
func (app *Application) Close() {
	if app.Postgres != nil {
		if err := app.Postgres.Close(); err != nil {
			app.Logger.Error("Error closing PostgreSQL connection", err)
		}
	}

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Error closing Redis connection", err)
		}
	}
}
