package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"terapis/internal/amqp"
	"terapis/internal/cache"
	"terapis/internal/cli"
	apphttp "terapis/internal/http"
	applog "terapis/internal/log"
	"terapis/internal/services"
	"terapis/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentApp)

	ctx, stop := cli.SignalContext()
	defer stop()

	store, res, err := cli.OpenLedger(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to open record store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer res.Cleanup()
	}

	cat, err := cli.LoadCatalog(cfg)
	if err != nil {
		logger.Error("Failed to load treatment catalog", "error", err)
		os.Exit(1)
	}
	caches := cache.NewManager()
	caches.Register("catalog_search", cat.SearchCache())
	caches.StartCleanup(10 * time.Minute)
	defer caches.Stop()

	dateMode, err := services.ParseDateMode(cfg.DateMode)
	if err != nil {
		logger.Error("Invalid date mode", "error", err)
		os.Exit(1)
	}
	opts := services.Options{DateMode: dateMode, Key: cfg.StoreKey}

	// Change notifications are optional. Without a broker the mirror, when
	// configured, runs in-process on its interval.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without notifications", "error", err)
		} else {
			defer amqpClient.Close()
			opts.Publisher = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	var processor *worker.Processor
	if cfg.SheetsEnabled() && opts.Publisher == nil {
		sheetsClient, err := cli.NewSheetsClient(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		processor = worker.NewProcessor(worker.NewSyncWorker(res.Backend, sheetsClient, cli.Locale(cfg)), cfg.SyncInterval)
	}

	tx := services.NewTransactionService(store, opts)
	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Transactions:      tx,
		Catalog:           cat,
		Locale:            cli.Locale(cfg),
		Ready:             res.Ready,
		RequestsPerMinute: cfg.RateLimit,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting terapis server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"records", len(store.Snapshot()),
			"date_mode", dateMode.String(),
			"order", store.Order().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if processor != nil {
		g.Go(func() error {
			if err := processor.Start(gctx); err != nil {
				return err
			}
			<-gctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return processor.Stop(stopCtx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
