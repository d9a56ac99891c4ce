package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"caixa/internal/cli"
	"caixa/internal/log"
	"caixa/internal/services"
	"caixa/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting caixa-worker")

	repo := cli.OpenRepository(logger, cfg)
	defer repo.Close()

	// When AMQP is configured the worker broadcasts invalidations so API
	// instances drop stale caches after a pass creates rows.
	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	var publisher services.InvalidationPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	invalidator := services.NewInvalidator(nil, publisher)

	reconciler := services.NewReconciler(repo, invalidator)
	w := worker.NewReconcileWorker(repo, reconciler, cfg.ReconcileInterval)

	logger.Info("Reconcile worker configured",
		"interval", cfg.ReconcileInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := w.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
