package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nurlyy/customer_data/internal/api"
	"github.com/nurlyy/customer_data/internal/api/handlers"
	"github.com/nurlyy/customer_data/internal/app"
	"github.com/nurlyy/customer_data/internal/service"
	"github.com/nurlyy/customer_data/pkg/config"
	"github.com/nurlyy/customer_data/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.IsProduction())
	log.Info("Starting customer API", map[string]interface{}{
		"app_name": cfg.App.Name,
		"env":      cfg.App.Environment,
	})

	application, err := app.NewApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", err)
	}
	defer application.Close()

	rateLimiter := application.RateLimiter()
	customerHandler := handlers.NewCustomerHandler(handlers.NewBaseHandler(log), application.Endpoint)
	server := api.NewServer(cfg, log, customerHandler, rateLimiter)

	g, gctx := errgroup.WithContext(ctx)

	if rateLimiter != nil && application.Redis == nil {
		scheduler := service.NewMaintenanceScheduler(cfg.RateLimit.CleanupCron, rateLimiter, log)
		if err := scheduler.Start(gctx); err != nil {
			log.Fatal("Failed to start maintenance scheduler", err)
		}
	}

	g.Go(func() error {
		return server.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", err)
		return
	}

	log.Info("Server gracefully stopped")
}
