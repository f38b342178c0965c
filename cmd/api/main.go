// Package main implements the QuitoEmprende development API server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/cache"
	apihttp "github.com/dsjohal14/quitoemprende/internal/http"
	"github.com/dsjohal14/quitoemprende/internal/libs/config"
	"github.com/dsjohal14/quitoemprende/internal/libs/obs"
	"github.com/dsjohal14/quitoemprende/internal/scope/db"
	"github.com/rs/zerolog"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := initStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer func() { _ = store.Close() }()

	suggestCache := initCache(cfg, logger)
	defer func() { _ = suggestCache.Close() }()

	// Create HTTP handler
	handler := apihttp.NewHandler(store, logger, apihttp.Options{
		Cache:     suggestCache,
		CacheTTL:  cfg.CacheTTL,
		JWTSecret: cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           apihttp.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", srv.Addr).Msg("starting API server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}

// initStore opens the file store, imports SEED_FILE when set, and moves favorites
// to Postgres when DATABASE_URL is configured
func initStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (db.Storage, error) {
	fileStore, err := db.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	if seedPath := os.Getenv("SEED_FILE"); seedPath != "" {
		seed, err := fileStore.LoadSeed(seedPath)
		if err != nil {
			return nil, err
		}
		if err := fileStore.Flush(ctx); err != nil {
			return nil, err
		}
		logger.Info().
			Str("seed", seedPath).
			Int("productos", len(seed.Productos)).
			Int("emprendimientos", len(seed.Emprendimientos)).
			Msg("catalog seeded")
	}

	if cfg.DatabaseURL == "" {
		logger.Info().Str("data_dir", cfg.DataDir).Msg("using file store")
		return fileStore, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conn, err := db.New(connectCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	store, err := db.NewPGStore(connectCtx, fileStore, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info().Msg("using Postgres-backed favorites")
	return store, nil
}

// initCache prefers Redis and falls back to an in-process cache
func initCache(cfg *config.Config, logger zerolog.Logger) cache.SuggestCache {
	if cfg.RedisAddr == "" {
		return cache.NewMemory()
	}

	rc, err := cache.NewRedis(cfg.RedisAddr, "", 0, "quitoemprende")
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using in-memory suggest cache")
		return cache.NewMemory()
	}

	logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("using redis suggest cache")
	return rc
}
