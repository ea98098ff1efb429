package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/db"
	httpapi "github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/offer"
	"github.com/andreasstove999/ecommerce-system/sales-admin-go/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- SQLite (sessions, optional offer cache) ---
	conn, err := db.Open(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, logger); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	// --- Offer cache ---
	primary, closeBackend := offerBackend(ctx, cfg, conn, logger)
	defer closeBackend()

	cache := offer.NewCache(primary, logger)
	logger.Info("offer cache ready", slog.String("backend", cache.Backend()))
	if cfg.FixtureMode {
		logger.Warn("fixture mode enabled: upstream failures are answered with canned data")
	}

	// --- Upstream ---
	// No client-level timeout; handlers bound each call with a context.
	sharedHTTP := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	catalogBase := clients.NewClient("catalog-api", cfg.UpstreamURL, sharedHTTP)
	catalogBase.Token = cfg.UpstreamToken

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:   logger,
		Cfg:      cfg,
		Catalog:  clients.NewCatalogClient(catalogBase),
		Offers:   offer.NewService(cache),
		Sessions: session.NewStore(conn),
		HealthProbes: []clients.HealthProbe{
			{Name: "catalog-api", Client: catalogBase, Path: "/health"},
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
	logger.Info("shutdown complete")
	return nil
}

// offerBackend builds the primary offer cache backend named in cfg. A nil
// backend means memory only. An unreachable redis is not fatal: the cache
// falls back to memory per operation until it comes back.
func offerBackend(ctx context.Context, cfg config.Config, conn *sql.DB, logger *slog.Logger) (offer.Backend, func()) {
	switch cfg.OfferCacheBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable at startup", slog.String("addr", cfg.RedisAddr), slog.Any("error", err))
		}
		return offer.NewRedisBackend(rdb), func() { _ = rdb.Close() }
	case config.BackendSQLite:
		return offer.NewSQLiteBackend(conn), func() {}
	default:
		return nil, func() {}
	}
}
