package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"terapis/internal/amqp"
	"terapis/internal/cli"
	applog "terapis/internal/log"
	"terapis/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentWorker)
	logger.Info("Starting terapis-worker")

	if !cfg.SheetsEnabled() {
		logger.Error("Nothing to do: GOOGLE_SPREADSHEET_ID is not set")
		os.Exit(1)
	}
	if cfg.DataBackend == "memory" {
		logger.Error("The worker needs a shared record store, memory backend is process local")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to open record store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer res.Cleanup()
	}

	sheetsClient, err := cli.NewSheetsClient(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSummarySheet)

	syncWorker := worker.NewSyncWorker(res.Backend, sheetsClient, cli.Locale(cfg))

	// The periodic pass also covers the startup sync and any missed
	// notification.
	processor := worker.NewProcessor(syncWorker, cfg.SyncInterval)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			err := amqpClient.ConsumeLedgerSaved(gctx, syncWorker.HandleLedgerSaved)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("AMQP disabled, relying on periodic sync only", "interval", cfg.SyncInterval)
	}

	g.Go(func() error {
		if err := processor.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		logger.Info("Shutting down worker...")
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return processor.Stop(stopCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
