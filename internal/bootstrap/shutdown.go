package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/donateraid/storefront-api/internal/database"
	"github.com/donateraid/storefront-api/internal/server"
	"github.com/donateraid/storefront-api/internal/support"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server         *server.Server
	SupportService *support.Service
	DBPool         database.Pool
	RedisClient    *redis.Client
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in the correct order:
// 1. HTTP server (stop accepting new requests)
// 2. Support chat watchers (cancel upstream polling)
// 3. Database and cache connections
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	// Shutdown server first (stop accepting new requests)
	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.SupportService != nil {
		slog.Info(LogMsgStoppingSupportPolls)
		components.SupportService.Stop()
	}

	if components.RedisClient != nil {
		if err := components.RedisClient.Close(); err != nil {
			slog.Error("Redis close failed", "error", err)
		}
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}
