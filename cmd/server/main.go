package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	citizensmetrics "census/internal/citizens/metrics"
	"census/internal/citizens/service"
	"census/internal/citizens/store"
	httpapi "census/internal/http"
	platformbadger "census/internal/platform/badger"
	"census/internal/platform/config"
	"census/internal/platform/httpserver"
	"census/internal/platform/logger"
	"census/internal/platform/metrics"
	platformredis "census/internal/platform/redis"
	"census/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "census: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closer, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Error("failed to close store", "store", cfg.Store, "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, err := service.New(st,
		service.WithLogger(log),
		service.WithMetrics(citizensmetrics.New(reg)),
	)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		Service:        svc,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})
	srv := httpserver.New(cfg.Addr, router,
		httpserver.WithErrorLog(log),
		httpserver.WithWriteTimeout(cfg.RequestTimeout+5*time.Second),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting census", "addr", cfg.Addr, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var noopCloser = closerFunc(func() error { return nil })

// openStore builds the configured import store together with whatever must be
// closed on shutdown.
func openStore(ctx context.Context, cfg config.Server, log *slog.Logger) (store.Store, io.Closer, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return store.NewInMemoryStore(), noopCloser, nil
	case config.StoreSQLite:
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StorePostgres:
		s, err := store.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store.NewGuarded(s, newBreaker("postgres", cfg.Breaker), log), s, nil
	case config.StoreRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store.NewGuarded(store.NewRedis(client.Client), newBreaker("redis", cfg.Breaker), log), client, nil
	case config.StoreBadger:
		db, err := platformbadger.Open(platformbadger.FromConfig(cfg.Badger, log))
		if err != nil {
			return nil, nil, err
		}
		return store.NewBadger(db.DB), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store)
	}
}

func newBreaker(name string, cfg config.BreakerConfig) *circuit.Breaker {
	return circuit.New(name,
		circuit.WithFailureThreshold(cfg.FailureThreshold),
		circuit.WithSuccessThreshold(cfg.SuccessThreshold),
		circuit.WithCooldown(cfg.Cooldown),
	)
}
