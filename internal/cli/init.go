// Package cli provides common CLI initialization utilities shared by
// cmd/terapis, cmd/terapis-worker and cmd/terapis-export.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"terapis/internal/backend"
	"terapis/internal/catalog"
	"terapis/internal/config"
	"terapis/internal/core"
	"terapis/internal/ledger"
	applog "terapis/internal/log"
	gsheet "terapis/internal/sheets/google"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default. An unknown level falls back to info.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	level, err := applog.ParseLevel(cfg.LogLevel)
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: component,
	})
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info log level", "error", err)
	}
	return logger
}

// LoadAndValidateConfig loads .env and the environment, installs the
// logger and validates. It exits the process on validation failure.
func LoadAndValidateConfig(component string) (*config.Config, *applog.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// OpenBackend creates the configured record store.
func OpenBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger.Logger).CreateBackend(ctx, bc)
}

// OpenLedger creates the record store and loads the collection from it.
func OpenLedger(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*ledger.Store, *backend.BackendResult, error) {
	res, err := OpenBackend(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	order, err := ledger.ParseOrder(cfg.OrderMode)
	if err != nil {
		if res.Cleanup != nil {
			_ = res.Cleanup()
		}
		return nil, nil, err
	}
	return ledger.Open(ctx, res.Backend, order), res, nil
}

// LoadCatalog reads CATALOG_FILE, or the built-in catalog when unset.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile == "" {
		return catalog.Default()
	}
	c, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogFile, err)
	}
	return c, nil
}

// Locale resolves LOCALE.
func Locale(cfg *config.Config) core.Locale {
	return core.ParseLocale(cfg.Locale)
}

// NewSheetsClient connects to the summary spreadsheet with the configured
// service account.
func NewSheetsClient(ctx context.Context, cfg *config.Config) (*gsheet.Client, error) {
	return gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSummarySheet,
		CredentialsJSON: []byte(cfg.GoogleServiceAccountJSON),
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
}
