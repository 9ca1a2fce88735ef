package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	pipeerrors "avgsales/internal/errors"
	"avgsales/internal/store"
)

const xlsxSheet = "Report"

// ExportXLSX writes the named table to a timestamped spreadsheet and returns
// the file path. This is an optional rendition for operators working in
// Excel; the CSV export remains the canonical output.
func (e *Exporter) ExportXLSX(ctx context.Context, table string) (string, error) {
	if err := store.ValidateTableName(table); err != nil {
		return "", pipeerrors.ExportFailed(table, err)
	}
	if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
		return "", pipeerrors.ExportFailed(e.cfg.OutputDir, err)
	}
	path := filepath.Join(e.cfg.OutputDir, e.Filename(e.now(), "xlsx"))

	rows, err := e.db.Query(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return "", pipeerrors.ExportFailed(path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", pipeerrors.ExportFailed(path, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return "", pipeerrors.ExportFailed(path, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", pipeerrors.ExportFailed(path, err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return "", pipeerrors.ExportFailed(path, err)
	}

	rowNum := 2
	values := make([]interface{}, len(columns))
	scanTargets := make([]interface{}, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return "", pipeerrors.ExportFailed(path, err)
		}
		record := make([]interface{}, len(columns))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return "", pipeerrors.ExportFailed(path, err)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &record); err != nil {
			return "", pipeerrors.ExportFailed(path, err)
		}
		rowNum++
	}
	if err := rows.Err(); err != nil {
		return "", pipeerrors.ExportFailed(path, err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", pipeerrors.ExportFailed(path, err)
	}

	e.logger.Info("spreadsheet rendition exported",
		slog.String("table", table),
		slog.String("path", path),
		slog.Int("rows", rowNum-2))
	return path, nil
}
