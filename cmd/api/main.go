package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartadapter "github.com/dwikikusuma/storefront/internal/cart/infra/adapter"
	cartmemory "github.com/dwikikusuma/storefront/internal/cart/infra/memory"
	cartredis "github.com/dwikikusuma/storefront/internal/cart/infra/redis"

	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalogpg "github.com/dwikikusuma/storefront/internal/catalog/infra/postgres"

	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"

	orderapp "github.com/dwikikusuma/storefront/internal/order/app"
	orderpg "github.com/dwikikusuma/storefront/internal/order/infra/postgres"

	dashboardapp "github.com/dwikikusuma/storefront/internal/dashboard/app"
	dashboardpg "github.com/dwikikusuma/storefront/internal/dashboard/infra/postgres"

	"github.com/dwikikusuma/storefront/internal/httpapi"
	"github.com/dwikikusuma/storefront/internal/notify"
	"github.com/dwikikusuma/storefront/migrations"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/dwikikusuma/storefront/pkg/postgres"
	"github.com/dwikikusuma/storefront/pkg/shutdown"
	"github.com/dwikikusuma/storefront/pkg/tracing"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const checkoutConcurrency = 10

type notifier interface {
	checkoutapp.Notifier
	orderapp.Notifier
}

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "api", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "storefront", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	pool := mustDB(ctx, cfg, log)
	defer pool.Close()

	if err := postgres.Migrate(pool, migrations.FS); err != nil {
		log.Error("migrate failed", slog.Any("err", err))
		os.Exit(1)
	}

	var events notifier
	if len(cfg.KafkaBrokers) > 0 {
		pub := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer pub.Close()
		events = pub
		log.Info("kafka notifier enabled", slog.String("topic", cfg.KafkaTopic))
	} else {
		events = notify.NewLogNotifier(log)
	}

	// Catalog
	catalogRepo := catalogpg.NewProductRepo(pool)
	catalogSvc := catalogapp.NewService(catalogRepo)

	// Cart
	var cartStore cartapp.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		cartStore = cartredis.NewStore(client, cfg.CartTTL)
		log.Info("redis cart store enabled", slog.String("addr", cfg.RedisAddr))
	} else {
		memStore := cartmemory.NewStore(cfg.CartTTL)
		defer memStore.Close()
		cartStore = memStore
	}
	cartSvc := cartapp.NewService(cartStore, cartadapter.NewCatalogServiceReader(catalogSvc))

	// Orders
	orderRepo := orderpg.NewOrderRepo(pool)
	orderSvc := orderapp.NewService(orderRepo, events, log)

	// Checkout (adapters)
	cartReader := checkoutadapter.NewCartServiceReader(cartSvc)
	catalogReader := checkoutadapter.NewCatalogServiceReader(catalogSvc)
	validator := checkoutapp.NewValidator(catalogReader, checkoutConcurrency)
	checkoutSvc := checkoutapp.NewService(cartReader, validator, orderRepo, events, log)

	// Dashboard
	dashboardSvc := dashboardapp.NewService(dashboardpg.NewDashboardRepo(pool), dashboardapp.Options{
		TTL:               cfg.DashboardTTL,
		LowStockThreshold: cfg.LowStockThreshold,
	})

	handler := httpapi.NewHandler(log, cartSvc, catalogSvc, checkoutSvc, orderSvc, dashboardSvc)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := srv.Shutdown(stopCtx); err != nil {
		log.Warn("graceful stop timeout, forcing close", slog.Any("err", err))
		srv.Close()
	}

	wg.Wait()
	log.Info("bye")
}

func mustDB(ctx context.Context, cfg config.Config, log *slog.Logger) *pgxpool.Pool {
	pool, err := postgres.Open(ctx, postgres.Config{
		Host: cfg.PostgresHost,
		Port: cfg.PostgresPort,
		User: cfg.PostgresUser,
		Pass: cfg.PostgresPass,
		DB:   cfg.PostgresDB,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	return pool
}
