package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pricecompare/internal"
	"pricecompare/internal/config"
	"pricecompare/internal/container"
	"pricecompare/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates/*.html
var embeddedFiles embed.FS

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	gin.SetMode(appConfig.Server.GinMode)

	if err := run(appConfig, logger); err != nil {
		logger.Error("shutting down: %v", err)
		os.Exit(1)
	}
}

func run(appConfig *config.Config, logger *internal.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	templatesFS, err := fs.Sub(embeddedFiles, "ui/templates")
	if err != nil {
		return errors.Wrap(err, "templates filesystem")
	}

	app, err := container.New(appConfig, logger, templatesFS)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
