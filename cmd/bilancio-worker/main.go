package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bilancio/internal/amqp"
	"bilancio/internal/cli"
	"bilancio/internal/log"
	"bilancio/internal/worker"
)

func main() {
	logger := cli.SetupLogger(log.ComponentWorker)
	cli.LoadEnvFile()

	logger.Info("Starting bilancio-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reindexWorker := worker.NewReindexWorker(repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeWeekReindex(ctx, func(msg *amqp.WeekReindexMessage) error {
			handleCtx, handleCancel := context.WithTimeout(ctx, cfg.ReindexBatchTimeout)
			defer handleCancel()
			return reindexWorker.HandleReindexMessage(handleCtx, msg)
		})
	})
	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
			return nil
		case <-ctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	// Give in-flight handlers a moment before the deferred closes run.
	time.Sleep(500 * time.Millisecond)
	logger.Info("Worker shutdown complete")
}
