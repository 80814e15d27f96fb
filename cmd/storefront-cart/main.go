// Command storefront-cart serves the cart and checkout engine for a single
// shopper over HTTP, persisting the cart to the configured backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/config"
	"github.com/nikolayk812/storefront-cart/internal/engine"
	"github.com/nikolayk812/storefront-cart/internal/httpapi"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront-cart: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("newLogger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openStore: %w", err)
	}
	defer closeStore()

	session, err := engine.New(ctx, store,
		engine.WithLogger(logger),
		engine.WithStorageKey(cfg.StorageKey),
		engine.WithCurrency(cfg.Currency))
	if err != nil {
		return fmt.Errorf("engine.New: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	httpapi.NewHandler(session, logger).Routes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront cart started",
			zap.String("port", cfg.HTTPPort),
			zap.String("backend", string(cfg.Backend)),
			zap.String("storage_key", cfg.StorageKey),
			zap.Int("total_quantity", session.TotalQuantity()))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL[%s] is not valid: %w", level, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	return zcfg.Build()
}

func openStore(ctx context.Context, cfg config.Config) (port.KeyValueStore, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return repository.NewMemory(), func() {}, nil

	case config.BackendFile:
		store, err := repository.NewFile(cfg.StorageDir)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.NewFile: %w", err)
		}
		return store, func() {}, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		return repository.NewPostgres(pool), pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedis(client, cfg.RedisPrefix, cfg.RedisTTL), func() { _ = client.Close() }, nil

	case config.BackendMongo:
		db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.ConnectMongoDB: %w", err)
		}
		return repository.NewMongo(db), func() { _ = db.Client().Disconnect(context.Background()) }, nil
	}

	return nil, nil, fmt.Errorf("backend[%s] is not supported", cfg.Backend)
}
