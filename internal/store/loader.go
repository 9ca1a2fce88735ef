package store

import (
	"context"
	"fmt"
	"log/slog"

	pipeerrors "avgsales/internal/errors"
	"avgsales/internal/files"
)

// Format identifies the physical layout of a source extract. It is a closed
// enumeration; each case carries its own load-statement template.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

// readExpr returns the DuckDB table function reading the given files.
func (f Format) readExpr(pathList string) (string, error) {
	switch f {
	case FormatParquet:
		return fmt.Sprintf("read_parquet(%s)", pathList), nil
	case FormatCSV:
		// Header row required; field types are inferred.
		return fmt.Sprintf("read_csv_auto(%s, header=true)", pathList), nil
	default:
		return "", fmt.Errorf("unknown data format %q", f)
	}
}

// LoadRequest describes one bulk load: a set of same-format files unioned
// into a single target table.
type LoadRequest struct {
	Paths     []string
	Table     string
	Format    Format
	Overwrite bool
}

// Loader ingests source extracts into named tables.
type Loader struct {
	db     *DB
	logger *slog.Logger
}

// NewLoader creates a bulk loader over the given database.
func NewLoader(db *DB, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{db: db, logger: logger}
}

// Load ingests every file in req.Paths into one table. All rows from all
// files become a single logical union with no file-origin tagging; the column
// layout comes from the files' own headers or schema.
//
// Every path must exist before any database operation is issued; a missing
// path fails the whole load with a MISSING_INPUT error and leaves no table
// behind. When Overwrite is set, a pre-existing table of the same name is
// dropped first.
func (l *Loader) Load(ctx context.Context, req LoadRequest) error {
	if len(req.Paths) == 0 {
		return pipeerrors.LoadFailed(req.Table, fmt.Errorf("no input paths given"))
	}
	if err := ValidateTableName(req.Table); err != nil {
		return pipeerrors.LoadFailed(req.Table, err)
	}

	// Fail fast on missing inputs, before any SQL runs.
	if err := files.CheckAllExist(req.Paths); err != nil {
		return err
	}

	readExpr, err := req.Format.readExpr(QuoteStringList(req.Paths))
	if err != nil {
		return pipeerrors.LoadFailed(req.Table, err)
	}

	if req.Overwrite {
		if err := l.db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", req.Table)); err != nil {
			return pipeerrors.LoadFailed(req.Table, fmt.Errorf("failed to drop existing table: %w", err))
		}
	}

	query := fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s", req.Table, readExpr)
	if err := l.db.Exec(ctx, query); err != nil {
		return pipeerrors.LoadFailed(req.Table, err)
	}

	l.logger.Info("loaded source files into table",
		slog.String("table", req.Table),
		slog.String("format", string(req.Format)),
		slog.Int("files", len(req.Paths)))
	return nil
}
