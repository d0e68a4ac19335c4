package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/josh-kwaku/loan-servicing/internal/cache"
	"github.com/josh-kwaku/loan-servicing/internal/config"
	"github.com/josh-kwaku/loan-servicing/internal/handler"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
	"github.com/josh-kwaku/loan-servicing/internal/metrics"
	"github.com/josh-kwaku/loan-servicing/internal/middleware"
	"github.com/josh-kwaku/loan-servicing/internal/repository"
	"github.com/josh-kwaku/loan-servicing/internal/service"
	"github.com/josh-kwaku/loan-servicing/internal/service/payment"
	"github.com/josh-kwaku/loan-servicing/internal/storage"
	"github.com/josh-kwaku/loan-servicing/internal/worker"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Init("loan-api", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}, 30)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var dashCache *cache.DashboardCache
	if redisClient != nil {
		defer redisClient.Close()
		dashCache = cache.NewDashboardCache(redisClient.Client, cfg.DashboardCacheTTL)
	} else {
		logger.Info("redis not configured, dashboard cache disabled")
	}

	archive, err := storage.NewArchive(ctx, cfg.S3)
	if err != nil {
		return err
	}
	if archive == nil {
		logger.Info("s3 not configured, import uploads are not archived")
	}

	m := metrics.New()

	users := repository.NewUserRepository(db)
	clients := repository.NewClientRepository(db)
	contracts := repository.NewContractRepository(db)
	payments := repository.NewPaymentRepository(db)
	events := repository.NewContractEventRepository(db)
	dashboards := repository.NewDashboardRepository(db)
	idempotency := repository.NewIdempotencyRepository(db)

	userSvc := service.NewUserService(users, cfg.JWTSecret, cfg.JWTExpiry)
	clientSvc := service.NewClientService(clients, dashCache)
	contractSvc := service.NewContractService(contracts, clients, events, dashCache, m, db)
	paymentSvc := payment.NewService(contracts, payments, events, clients, dashCache, m, db)
	dashboardSvc := service.NewDashboardService(dashboards, dashCache, contracts, m)
	sweeper := service.NewOverdueSweeper(contracts, contractSvc, cfg.OverdueGraceDays, logger)

	health := handler.NewHealthHandler(db, version)
	if redisClient != nil {
		health = health.WithCheck("redis", redisClient.Health)
	}

	mux := newRouter(routes{
		auth:        handler.NewAuthHandler(userSvc),
		clients:     handler.NewClientHandler(clientSvc),
		contracts:   handler.NewContractHandler(contractSvc, paymentSvc),
		payments:    handler.NewPaymentHandler(paymentSvc),
		dashboard:   handler.NewDashboardHandler(dashboardSvc),
		imports:     handler.NewImportHandler(contractSvc, paymentSvc, archive, cfg.ImportMaxBytes),
		health:      health,
		idempotency: idempotency,
		jwtSecret:   cfg.JWTSecret,
	})

	var h http.Handler = middleware.Metrics(m)(mux)
	h = middleware.Logging(logger)(h)
	h = middleware.Tracing(h)
	h = middleware.Recovery(h)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg sync.WaitGroup
	workers := []*worker.Ticker{
		worker.NewTicker("overdue-sweeper", cfg.OverdueSweepInterval, func(ctx context.Context) error {
			_, err := sweeper.Sweep(ctx)
			return err
		}, logger),
		worker.NewTicker("idempotency-cleanup", cfg.IdempotencyCleanup, func(ctx context.Context) error {
			n, err := idempotency.DeleteExpired(ctx)
			if n > 0 {
				logger.Info("expired idempotency records removed", "count", n)
			}
			return err
		}, logger),
	}
	for _, w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Start(ctx)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	wg.Wait()
	logger.Info("server stopped")
	return nil
}
