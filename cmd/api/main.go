package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agrofeira/feira-backend/api/routes"
	"github.com/agrofeira/feira-backend/internal/catalog"
	"github.com/agrofeira/feira-backend/internal/composition"
	"github.com/agrofeira/feira-backend/internal/cycles"
	"github.com/agrofeira/feira-backend/pkg/config"
	"github.com/agrofeira/feira-backend/pkg/db"
	"github.com/agrofeira/feira-backend/pkg/logger"
	"github.com/agrofeira/feira-backend/pkg/metrics"
	"github.com/agrofeira/feira-backend/pkg/migrate"
	"github.com/agrofeira/feira-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cycleService, err := cycles.NewService(cycles.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cycle service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	compositionMetrics := metrics.NewCompositionMetrics(prometheus.DefaultRegisterer)
	draftStore := composition.NewDraftStore(redisClient, cfg.Drafts.TTL)

	compositionService, err := composition.NewService(
		dbClient,
		composition.NewRepository(dbClient.DB()),
		catalog.NewRepository(dbClient.DB()),
		cycleService,
		draftStore,
		compositionMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create composition service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, cycleService, catalogService, compositionService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
