package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/nurlyy/customer_data/internal/app"
	"github.com/nurlyy/customer_data/internal/function"
	"github.com/nurlyy/customer_data/pkg/config"
	"github.com/nurlyy/customer_data/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// function logs are always collected as JSON
	log := logger.NewLogger(cfg.App.LogLevel, true)

	application, err := app.NewApplication(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", err)
	}
	defer application.Close()

	handler := function.NewHandler(application.Endpoint, log)
	lambda.Start(handler.Handle)
}
