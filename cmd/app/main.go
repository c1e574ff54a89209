package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/donateraid/storefront-api/internal/auth"
	"github.com/donateraid/storefront-api/internal/backend"
	"github.com/donateraid/storefront-api/internal/bootstrap"
	"github.com/donateraid/storefront-api/internal/cart"
	"github.com/donateraid/storefront-api/internal/catalog"
	"github.com/donateraid/storefront-api/internal/checkout"
	"github.com/donateraid/storefront-api/internal/config"
	"github.com/donateraid/storefront-api/internal/database"
	"github.com/donateraid/storefront-api/internal/gamesync"
	"github.com/donateraid/storefront-api/internal/handler"
	"github.com/donateraid/storefront-api/internal/logger"
	"github.com/donateraid/storefront-api/internal/notification"
	"github.com/donateraid/storefront-api/internal/server"
	"github.com/donateraid/storefront-api/internal/support"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdleTime, cfg.DBMaxLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	platform := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout)
	repos := bootstrap.InitializeRepositories(dbPool)

	cartService := cart.NewService(repos.Cart, cart.NewRedisCache(redisClient, cfg.CartCacheTTL))
	checkoutService := checkout.NewService(platform, cartService)
	catalogService := catalog.NewService(platform, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
	reconciler := gamesync.NewReconciler(platform)
	supportService := support.NewService(platform, cfg.SupportPollInterval)
	notificationService := notification.NewService(platform, cfg.NotificationPollInterval)
	authService := auth.NewService(repos.Session, platform)

	h := handler.New(
		cartService,
		checkoutService,
		catalogService,
		reconciler,
		supportService,
		notificationService,
		authService,
		platform,
		platform,
	)

	srv := server.NewServer(cfg.Port, cfg.TrustedProxies, dbPool, h)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		logger.Error("Server failed", "error", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:         srv,
		SupportService: supportService,
		DBPool:         dbPool,
		RedisClient:    redisClient,
	})
}
