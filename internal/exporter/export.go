package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"avgsales/internal/config"
	pipeerrors "avgsales/internal/errors"
	"avgsales/internal/store"
)

// timestampLayout gives second granularity, enough to keep successive runs
// from colliding on the output filename.
const timestampLayout = "20060102_150405"

// Exporter writes a result table to report files.
type Exporter struct {
	db     *store.DB
	cfg    config.ExportConfig
	logger *slog.Logger
	now    func() time.Time
}

// New creates an exporter over the given database.
func New(db *store.DB, cfg config.ExportConfig, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{db: db, cfg: cfg, logger: logger, now: time.Now}
}

// Filename returns the run-stamped report filename for the given extension,
// e.g. avg_sales_20250131_142501.csv.
func (e *Exporter) Filename(t time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", e.cfg.FilePrefix, t.Format(timestampLayout), ext)
}

// ExportCSV writes the named table to a timestamped delimited text file via
// the engine's COPY statement and returns the file path. The default format
// (semicolon delimiter, double-quote quoting, header row) is fixed for
// downstream consumers.
func (e *Exporter) ExportCSV(ctx context.Context, table string) (string, error) {
	if err := store.ValidateTableName(table); err != nil {
		return "", pipeerrors.ExportFailed(table, err)
	}
	if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
		return "", pipeerrors.ExportFailed(e.cfg.OutputDir, err)
	}

	path := filepath.Join(e.cfg.OutputDir, e.Filename(e.now(), "csv"))
	query := fmt.Sprintf("COPY %s TO %s (FORMAT CSV, HEADER %t, DELIMITER %s, QUOTE %s)",
		table,
		store.QuoteString(path),
		e.cfg.Header,
		store.QuoteString(e.cfg.Delimiter),
		store.QuoteString(e.cfg.Quote))

	if err := e.db.Exec(ctx, query); err != nil {
		return "", pipeerrors.ExportFailed(path, err)
	}

	e.logger.Info("report exported",
		slog.String("table", table),
		slog.String("path", path))
	return path, nil
}
