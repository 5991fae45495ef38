package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/shophub-io/shophub-backend/internal/catalog"
	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/internal/orders"
	"github.com/shophub-io/shophub-backend/pkg/config"
	"github.com/shophub-io/shophub-backend/pkg/db"
	"github.com/shophub-io/shophub-backend/pkg/logger"
	"github.com/shophub-io/shophub-backend/pkg/redis"
)

// Rebuilds the read mirror from the system of record. Safe to run at any
// time; every document is an idempotent overwrite.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "sync-mirror"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "sync-mirror",
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

	var loadErr error

	productRepo := catalog.NewProductRepository(dbClient.DB())
	products, err := productRepo.ListAll(ctx)
	loadErr = multierr.Append(loadErr, err)
	for i := range products {
		syncer.UpsertProduct(ctx, &products[i])
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	allOrders, err := orderRepo.ListAll(ctx)
	loadErr = multierr.Append(loadErr, err)
	for i := range allOrders {
		syncer.SaveOrder(ctx, &allOrders[i])
	}

	if loadErr != nil {
		logg.Error(ctx, "mirror resync finished with load failures", loadErr)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"products": len(products),
		"orders":   len(allOrders),
	})
	logg.Info(ctx, "mirror resync complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
