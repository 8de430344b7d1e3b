package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	"expensetracker/internal/log"
	gsheet "expensetracker/internal/sheets/google"
	"expensetracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)
	logger.Info("Starting expenses-worker")

	if cfg.AMQPURL == "" || cfg.GoogleSpreadsheetID == "" {
		logger.Error("Worker needs AMQP_URL and GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(cfg *config.Config, logger *log.Logger) error {
	setupCtx := context.Background()

	mirror, err := gsheet.New(setupCtx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger)
	if err != nil {
		return err
	}
	logger.Info("Google Sheets mirror initialized", "location", mirror.Location())

	mirrorWorker := worker.NewMirrorWorker(mirror, logger)

	// When the primary store is elsewhere, catch up on events missed while
	// the worker was down.
	if cfg.DataBackend != config.BackendSheets {
		resync(setupCtx, cfg, logger, mirrorWorker)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeEvents(gctx, mirrorWorker.HandleEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	cli.WaitForShutdown(ctx, done)
	return nil
}

func resync(ctx context.Context, cfg *config.Config, logger *log.Logger, w *worker.MirrorWorker) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Warn("Skipping startup resync", log.FieldError, err)
		return
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		logger.Warn("Skipping startup resync, primary backend unavailable", log.FieldError, err)
		return
	}
	defer res.Close()

	if err := w.Resync(ctx, res.Persister); err != nil {
		logger.Error("Startup resync failed", log.FieldError, err)
	}
}
