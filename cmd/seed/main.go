package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/shophub-io/shophub-backend/internal/catalog"
	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/pkg/config"
	"github.com/shophub-io/shophub-backend/pkg/db"
	"github.com/shophub-io/shophub-backend/pkg/logger"
	"github.com/shophub-io/shophub-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	syncer, err := mirror.NewSyncer(redisClient, logg, nil)
	requireResource(ctx, logg, "mirror syncer", err)
	notifier := mirror.NewNotifier()
	notifier.Register(syncer)

	seeder, err := catalog.NewSeeder(
		catalog.NewProductRepository(dbClient.DB()),
		catalog.NewCategoryRepository(dbClient.DB()),
		dbClient,
		notifier,
	)
	requireResource(ctx, logg, "seeder", err)

	count, err := seeder.Run(ctx, catalog.DemoCatalog())
	if err != nil {
		logg.Error(ctx, "seeding demo catalog failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "products", count), "demo catalog seeded")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
