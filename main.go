package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/handlers"
	"food-ordering-api/routes"
	"food-ordering-api/telemetry"
	"food-ordering-api/tracking"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Logger.WithError(err).Fatal("Invalid configuration")
	}
	config.ConfigureLogger(cfg)
	logger := config.Logger

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.DebugMode)
	}

	config.InitDB(cfg)
	if cfg.SeedDemo {
		if err := config.SeedDemo(config.DB); err != nil {
			logger.WithError(err).Fatal("Failed to seed demo data")
		}
	}

	shutdownTracing, err := telemetry.InitTracing("food-ordering-api", cfg.OTLPEndpoint)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialise tracing")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := events.NewKafkaProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.WithError(err).Warn("Kafka unavailable, order events will not be published")
		} else {
			publisher = producer
		}
	}
	handlers.SetEventPublisher(publisher)
	handlers.SetAllowPasswordReset(cfg.AllowPasswordReset)
	if cfg.AllowPasswordReset {
		logger.Warn("Unverified password reset is enabled (ALLOW_PASSWORD_RESET)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := tracking.NewHub(logger)
	go hub.Run(ctx)
	handlers.SetOrderHub(hub)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      routes.NewRouter(cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	if err := publisher.Close(); err != nil {
		logger.WithError(err).Error("Failed to close event publisher")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to flush traces")
	}
	logger.Info("Server exited")
}
