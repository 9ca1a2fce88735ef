// Package store is the DuckDB access layer: database lifecycle, identifier
// quoting, and bulk ingestion of Parquet and CSV extracts into named tables.
//
// Table names under program control pass an identifier allow-list before they
// are interpolated into DDL; arbitrary column headers from source files are
// always double-quoted. Nothing user-influenced is interpolated unescaped.
package store
