package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/shophub-io/shophub-backend/api/routes"
	cartsvc "github.com/shophub-io/shophub-backend/internal/cart"
	"github.com/shophub-io/shophub-backend/internal/catalog"
	chatbotsvc "github.com/shophub-io/shophub-backend/internal/chatbot"
	checkoutsvc "github.com/shophub-io/shophub-backend/internal/checkout"
	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/internal/orders"
	"github.com/shophub-io/shophub-backend/internal/payments"
	"github.com/shophub-io/shophub-backend/internal/users"
	"github.com/shophub-io/shophub-backend/pkg/config"
	"github.com/shophub-io/shophub-backend/pkg/db"
	"github.com/shophub-io/shophub-backend/pkg/logger"
	"github.com/shophub-io/shophub-backend/pkg/metrics"
	"github.com/shophub-io/shophub-backend/pkg/migrate"
	"github.com/shophub-io/shophub-backend/pkg/redis"
	"github.com/shophub-io/shophub-backend/pkg/session"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionStore, err := session.NewStore(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mirrorMetrics := metrics.NewMirrorMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	syncer, err := mirror.NewSyncer(redisClient, logg, mirrorMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create mirror syncer", err)
		os.Exit(1)
	}
	notifier := mirror.NewNotifier()
	notifier.Register(syncer)

	catalogService, err := catalog.NewService(
		catalog.NewProductRepository(dbClient.DB()),
		catalog.NewCategoryRepository(dbClient.DB()),
		syncer,
		notifier,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(sessionStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())

	checkoutService, err := checkoutsvc.NewService(
		checkoutsvc.NewRepository(dbClient.DB()),
		dbClient,
		cartService,
		catalogService,
		usersRepo,
		notifier,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	chatbotService, err := chatbotsvc.NewService(
		syncer,
		cartService,
		checkoutService,
		sessionStore,
		logg,
		cfg.App.BaseURL,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create chatbot service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	var gateway *payments.Gateway
	if cfg.Gateway.AccessToken != "" {
		gateway, err = payments.NewGateway(context.Background(), cfg.Gateway, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create payment gateway", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "payment gateway access token not set, gateway checkout disabled")
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
		Addr: addr,
		Handler: routes.New(routes.Deps{
			Logg:         logg,
			SessionStore: sessionStore,
			HTTPMetrics:  httpMetrics,
			Registry:     registry,
			DB:           dbClient,
			Redis:        redisClient,
			Catalog:      catalogService,
			Cart:         cartService,
			Checkout:     checkoutService,
			Chatbot:      chatbotService,
			Users:        usersService,
			Orders:       ordersRepo,
			Mirror:       syncer,
			Gateway:      gateway,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
