package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linarifux/dentista-api/internal/booking"
	"github.com/linarifux/dentista-api/internal/config"
	"github.com/linarifux/dentista-api/internal/handlers"
	"github.com/linarifux/dentista-api/internal/logging"
	"github.com/linarifux/dentista-api/internal/metrics"
	"github.com/linarifux/dentista-api/internal/models"
	"github.com/linarifux/dentista-api/internal/routes"
	"github.com/linarifux/dentista-api/internal/services"
	"github.com/linarifux/dentista-api/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	path := *configPath
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "" // env-only configuration
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	metrics.Register()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	defer client.Disconnect(context.Background())

	st := store.NewMongo(client.Database(cfg.Mongo.Database))
	if err := st.Ping(ctx); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}
	if err := st.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	if err := st.SeedServices(ctx, seedCatalog(cfg)); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	notificationSvc := services.NewNotificationService(logger.With().Str("component", "notifications").Logger())
	calculator := booking.NewSlotCalculator(&cfg.Clinic, st)
	bookingSvc := booking.NewService(st, calculator, booking.DefaultWorkflow())

	h := handlers.NewHandler(st, bookingSvc, notificationSvc, cfg, *logger)
	r := routes.New(h, cfg, logger)

	logger.Info().Str("addr", cfg.Addr()).Msg("starting server")
	return r.Run(cfg.Addr())
}

func seedCatalog(cfg *config.Config) []models.Service {
	seeds := make([]models.Service, 0, len(cfg.Clinic.Services))
	for _, s := range cfg.Clinic.Services {
		seeds = append(seeds, models.Service{
			Title:     models.NormalizeServiceTitle(s.Title),
			BasePrice: s.BasePrice,
			Duration:  s.Duration,
		})
	}
	return seeds
}
