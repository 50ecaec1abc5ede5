package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wealth-server/src/api"
	"wealth-server/src/config"
	"wealth-server/src/db"
	"wealth-server/src/db/memory"
	"wealth-server/src/db/mysql"
	pgstore "wealth-server/src/db/sql"
	"wealth-server/src/ledger"
	"wealth-server/src/logger"
	"wealth-server/src/ratelimit"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info")
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("DB connection failed")
	}
	defer closeStore()

	cache, err := db.NewCache(cfg.CacheMaxCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create cache")
	}
	defer cache.Close()

	limiter := ratelimit.New(ratelimit.Config{
		Capacity: cfg.RateLimit.Capacity,
		Refill:   cfg.RateLimit.Refill,
		Interval: cfg.RateLimit.Interval,
		Blocked:  cfg.RateLimit.Blocked,
	})
	svc := ledger.NewService(store, limiter)

	router := api.NewRouter(svc, cache, log, api.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		DemoMode:       cfg.DemoMode,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.DBDriver).Bool("demo", cfg.DemoMode).Msg("API server running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}

// openStore connects the configured driver and prepares its schema.
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (ledger.Store, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		gormDB, err := mysql.Open(cfg.MySQL, log)
		if err != nil {
			return nil, nil, err
		}
		store := mysql.NewStore(gormDB)
		if err := store.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return store, closeFn, nil

	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil

	default:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgstore.NewStore(pool), pool.Close, nil
	}
}
