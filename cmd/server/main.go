package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shipment-tracking-service/internal/clock"
	"shipment-tracking-service/internal/config"
	"shipment-tracking-service/internal/controller"
	"shipment-tracking-service/internal/logging"
	"shipment-tracking-service/internal/metrics"
	"shipment-tracking-service/internal/rabbit"
	"shipment-tracking-service/internal/repository"
	"shipment-tracking-service/internal/service"
	"shipment-tracking-service/internal/store"
)

const serviceName = "shipment-tracking-service"

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     version,
	})
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("shipment tracking service stopped", "error", err)
		os.Exit(1)
	}
}

// run owns every resource it opens; deferred cleanup runs on all return paths.
func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer closeStore()
	logger.Info("store ready", "driver", cfg.StoreDriver)

	// Repository and services
	repo := repository.NewShipmentRepository(st, clock.NewMonotonic())
	adminService := service.NewAdminService(repo)
	authService, err := service.NewSharedSecretAuthenticator(cfg.AdminSecret, []byte(cfg.SessionSigningKey), cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("build authenticator: %w", err)
	}
	m := metrics.New()

	ctrl := &controller.ShipmentController{
		Tracking: service.NewTrackingService(repo),
		Admin:    adminService,
		Listing:  service.NewListingService(repo),
		Auth:     authService,
		Metrics:  m,
		Logger:   logger,
	}
	router := controller.NewRouter(ctrl, cfg.CORSAllowedOrigins)

	if cfg.RabbitURL != "" {
		conn, err := amqp091.Dial(cfg.RabbitURL)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("open rabbitmq channel: %w", err)
		}
		defer ch.Close()

		consumer := rabbit.NewShipmentRequestedConsumer(adminService, logger, m)
		if err := rabbit.SetupConsumers(ctx, ch, consumer); err != nil {
			return fmt.Errorf("set up rabbitmq consumers: %w", err)
		}
	} else {
		logger.Info("RABBIT_URL not set, shipment intake disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("shipment tracking service listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemoryStore(), func() {}, nil

	case config.DriverPostgres:
		pg, err := store.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return pg, func() { pg.Close() }, nil

	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() { client.Disconnect(context.Background()) }

		if err := client.Ping(connectCtx, nil); err != nil {
			disconnect()
			return nil, nil, fmt.Errorf("ping mongodb: %w", err)
		}
		mg := store.NewMongoStore(client.Database(cfg.MongoDBName))
		if err := mg.EnsureIndexes(connectCtx); err != nil {
			disconnect()
			return nil, nil, fmt.Errorf("ensure mongodb indexes: %w", err)
		}
		return mg, disconnect, nil
	}
}
