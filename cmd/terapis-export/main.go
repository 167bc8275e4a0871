// Command terapis-export renders the revenue summary of the configured
// record store to a PDF or XLSX file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"terapis/internal/cli"
	"terapis/internal/core"
	"terapis/internal/export"
	applog "terapis/internal/log"
)

func main() {
	format := flag.String("format", "pdf", "output format: pdf or xlsx")
	out := flag.String("out", "", "output file (default Laporan_Terapis_<date>.<ext> in the current directory)")
	lang := flag.String("lang", "", "label language: id or en (default LOCALE)")
	months := flag.Bool("months", true, "include the monthly table in PDF output")
	flag.Parse()

	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentExport)

	var renderer export.Renderer
	switch *format {
	case "pdf":
		renderer = export.PDFRenderer{IncludeMonths: *months}
	case "xlsx":
		renderer = export.XLSXRenderer{}
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q: must be pdf or xlsx\n", *format)
		os.Exit(2)
	}

	locale := cli.Locale(cfg)
	if *lang != "" {
		locale = core.ParseLocale(*lang)
	}

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

	now := time.Now()
	path := *out
	if path == "" {
		path = export.FileName(renderer, now)
	}

	if err := write(path, renderer, export.NewSummary(store.Snapshot(), now, locale)); err != nil {
		logger.Error("Export failed", "error", err, "path", path)
		os.Exit(1)
	}
	logger.Info("Summary exported", "path", path, "format", renderer.Extension(), "records", len(store.Snapshot()))
}

func write(path string, r export.Renderer, s export.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.Render(f, s); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", r.Extension(), err)
	}
	return f.Close()
}
