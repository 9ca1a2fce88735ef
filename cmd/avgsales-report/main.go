// Command avgsales-report runs the average-sales report pipeline once:
// ingest the stock, trade-point, and indicator extracts into the embedded
// database, derive the per-(store, item) averages, and export them as a
// timestamped CSV report.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"avgsales/internal/config"
	"avgsales/internal/exporter"
	"avgsales/internal/infrastructure"
	"avgsales/internal/pipeline"
	"avgsales/internal/store"
)

func main() {
	// run() owns all deferred cleanup; main only translates its result into
	// the process exit code so the database is closed on every exit path.
	if err := run(); err != nil {
		slog.Error("report run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	load := flag.Bool("load", true, "reload source files before transforming (set false to reuse loaded tables)")
	outputDir := flag.String("out", "", "output directory override for the report")
	dbPath := flag.String("db", "", "database file override")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	// CLI flags given explicitly win over config file and environment
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "load" {
			cfg.Inputs.LoadFiles = *load
		}
	})
	if *outputDir != "" {
		cfg.Export.OutputDir = *outputDir
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", slog.Any("error", err))
			return
		}
		logger.Info("database connection closed")
	}()

	ctx := context.Background()
	state := &pipeline.State{
		DB:     db,
		Loader: store.NewLoader(db, logger),
		Config: cfg,
		Logger: logger,
	}

	manager := pipeline.NewManager(logger, pipeline.DefaultStages()...)
	if err := manager.Run(ctx, state); err != nil {
		return err
	}

	exp := exporter.New(db, cfg.Export, logger)
	path, err := exp.ExportCSV(ctx, pipeline.TableAverages)
	if err != nil {
		return err
	}
	logger.Info("report saved", slog.String("path", path))

	if cfg.Export.XLSX {
		xlsxPath, err := exp.ExportXLSX(ctx, pipeline.TableAverages)
		if err != nil {
			return err
		}
		logger.Info("spreadsheet saved", slog.String("path", xlsxPath))
	}
	return nil
}
