package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/billed/internal/auth"
	"github.com/geocoder89/billed/internal/config"
	"github.com/geocoder89/billed/internal/db"
	"github.com/geocoder89/billed/internal/fixtures"
	httpx "github.com/geocoder89/billed/internal/http"
	"github.com/geocoder89/billed/internal/http/handlers"
	"github.com/geocoder89/billed/internal/notifications"
	"github.com/geocoder89/billed/internal/observability"
	"github.com/geocoder89/billed/internal/receipts"
	"github.com/geocoder89/billed/internal/redisclient"
	"github.com/geocoder89/billed/internal/store"
	"github.com/geocoder89/billed/internal/store/cached"
	"github.com/geocoder89/billed/internal/store/memory"
	"github.com/geocoder89/billed/internal/store/postgres"
	"github.com/geocoder89/billed/internal/store/remote"
	"github.com/geocoder89/billed/internal/store/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// backend is the bill store picked by STORE_BACKEND plus what it owns.
type backend struct {
	bills       store.Store
	users       store.UserStore
	checks      map[string]handlers.Check
	receiptsDir string
	close       func()
}

func main() {
	// Load the config set up
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("billed stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	startCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	shutdownTracer, err := observability.InitTracer(startCtx, "billed-web", cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	b, err := openBackend(startCtx, cfg, log, prom)
	if err != nil {
		return err
	}
	defer b.close()

	bills, closeCache := withCache(cfg, log, prom, b)
	defer closeCache()

	if err := db.EnsureAdminUser(startCtx, b.users, cfg); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	router := httpx.NewRouter(httpx.Deps{
		Log:         log,
		Notifier:    notifications.NewProtectedNotifier(notifications.NewLogNotifier(log), notifications.ProtectedNotifierConfig{}),
		Cfg:         cfg,
		Bills:       bills,
		Users:       b.users,
		JWT:         auth.NewManager(cfg.JWTSecret, cfg.SessionTTL),
		Prom:        prom,
		Registry:    reg,
		Checks:      b.checks,
		ReceiptsDir: b.receiptsDir,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreBackend)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}
	log.Info("server shutting down")

	ctx, cancelShutdown := config.WithTimeout(10 * time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

func openBackend(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (backend, error) {
	b := backend{checks: map[string]handlers.Check{}, close: func() {}}

	if cfg.StoreBackend == config.BackendRemote {
		b.bills = remote.New(cfg.APIURL, remote.WithToken(cfg.APIToken), remote.WithProm(prom))
		// accounts stay local; the remote API only holds bills
		b.users = memory.New(nil)
		return b, nil
	}

	storage, err := receipts.NewStorage(cfg.UploadDir)
	if err != nil {
		return b, err
	}
	b.receiptsDir = storage.Dir()

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return b, fmt.Errorf("connect postgres: %w", err)
		}
		st := postgres.New(pool, storage, prom)
		b.bills, b.users = st, st
		b.checks["db"] = pool.Ping
		b.close = pool.Close

	case config.BackendSQLite:
		st, err := sqlite.Open(cfg.SQLitePath, storage, prom)
		if err != nil {
			return b, fmt.Errorf("open sqlite: %w", err)
		}
		b.bills, b.users = st, st
		b.checks["db"] = st.Ping
		b.close = func() { _ = st.Close() }

	case config.BackendMemory:
		st := memory.New(storage)
		if cfg.SeedFixtures {
			st.Seed(fixtures.Bills()...)
			log.Info("fixture bills loaded", "count", len(fixtures.Bills()))
		}
		b.bills, b.users = st, st

	default:
		return b, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return b, nil
}

// withCache puts the list cache in front of the store: redis when configured,
// in process otherwise.
func withCache(cfg config.Config, log *slog.Logger, prom *observability.Prom, b backend) (store.Store, func()) {
	if cfg.RedisAddr == "" {
		return cached.New(b.bills, cached.NewMemoryCache(cfg.CacheTTL), log, prom), func() {}
	}

	rdb := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	b.checks["redis"] = rdb.Ping

	return cached.New(b.bills, cached.NewRedisCache(rdb.Raw(), cfg.CacheTTL), log, prom), func() { _ = rdb.Close() }
}
