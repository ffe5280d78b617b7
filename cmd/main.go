package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/japi-express/shipment-service/internal/application"
	"github.com/japi-express/shipment-service/internal/catalog"
	"github.com/japi-express/shipment-service/internal/config"
	"github.com/japi-express/shipment-service/internal/kafka"
	"github.com/japi-express/shipment-service/internal/logger"
	"github.com/japi-express/shipment-service/internal/migrate"
	"github.com/japi-express/shipment-service/internal/presentation"
	"github.com/japi-express/shipment-service/internal/repository"
	"github.com/japi-express/shipment-service/internal/session"
)

func main() {
	logger.Init()
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("config load failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// DB pool; the database may still be coming up, so ping with backoff
	pool, err := pgxpool.New(ctx, cfg.DB_STRING)
	if err != nil {
		logger.Warn("pgxpool new failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		logger.Warn("db ping failed", "err", err)
		os.Exit(1)
	}
	logger.Info("db connected")

	if err := migrate.Up(cfg.DB_STRING); err != nil {
		logger.Warn("migrations failed", "err", err)
		os.Exit(1)
	}

	// Wiring
	shipmentRepo := repository.NewShipmentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)

	regions, err := catalogRepo.LoadRegions(ctx)
	if err != nil {
		logger.Warn("catalog load failed", "err", err)
		os.Exit(1)
	}
	locations := catalog.New(regions)
	logger.Info("location catalog loaded", "regions", len(regions))

	shipments := application.NewShipmentsService(shipmentRepo)
	if err := shipments.RestoreCache(ctx, 1000); err != nil {
		logger.Warn("restore cache failed", "err", err)
	}

	users := application.NewUsersService(userRepo)
	inventory := application.NewInventoryService(inventoryRepo)
	sessions := session.NewStore(cfg.SESSION_TTL)

	prod := kafka.NewProducer(cfg.KAFKA_BROKERS, cfg.KAFKA_TOPIC)
	defer prod.Close()

	drafts := application.NewDraftService(locations, inventory, prod, cfg.SUBMIT_TIMEOUT, cfg.DRAFT_TTL)

	_, _ = kafka.StartConsumer(
		ctx,
		shipments,
		kafka.ConsumerConfig{
			Brokers: cfg.KAFKA_BROKERS,
			Topic:   cfg.KAFKA_TOPIC,
			GroupID: cfg.KAFKA_GROUP_ID,
		},
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API
	usersHandler := presentation.NewUsersHandler(users, sessions)
	usersHandler.RegisterPublic(r)
	presentation.NewLocationsHandler(locations).Register(r)

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)
		usersHandler.Register(r)
		presentation.NewDraftsHandler(drafts).Register(r)
		presentation.NewShipmentsHandler(shipments).Register(r)
		presentation.NewInventoryHandler(inventory).Register(r)
	})

	addr := ":" + cfg.HTTP_PORT
	logger.Info("starting http", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Warn("http server crashed", "err", err)
		os.Exit(1)
	}
}
