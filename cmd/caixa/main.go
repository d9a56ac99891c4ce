package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"caixa/internal/amqp"
	"caixa/internal/cache"
	"caixa/internal/cli"
	apphttp "caixa/internal/http"
	"caixa/internal/log"
	"caixa/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.OpenRepository(logger, cfg)
	defer repo.Close()

	registry := cache.NewRegistry()

	// AMQP is optional: without it, invalidation stays process-local and
	// other instances converge through cache TTL expiry.
	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	var publisher services.InvalidationPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	invalidator := services.NewInvalidator(registry, publisher)

	analytics := services.NewAnalyticsService(repo, registry, cfg.CacheMaxSize, cfg.CacheTTL)

	cacheManager := cache.NewManager()
	for _, c := range analytics.Caches() {
		cacheManager.Register(c)
	}
	cacheManager.StartCleanup(cfg.CacheTTL)
	defer cacheManager.Stop()

	srv := apphttp.NewServer(cfg, apphttp.Services{
		Transactions: services.NewTransactionService(repo, invalidator),
		Installments: services.NewInstallmentService(repo, invalidator),
		Templates:    services.NewTemplateService(repo),
		Workspace:    services.NewWorkspaceService(repo, invalidator),
		Analytics:    analytics,
		Reconciler:   services.NewReconciler(repo, invalidator),
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting caixa server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.ConsumeInvalidations(gctx, func(msg *amqp.InvalidationMessage) error {
				registry.Invalidate(msg.ScopeKey, msg.CacheRegions()...)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
