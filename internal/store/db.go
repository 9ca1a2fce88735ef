package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// DB wraps the embedded DuckDB database file used by one pipeline run.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the DuckDB database file at path.
//
// The pool is pinned to a single connection: the pipeline is strictly
// sequential, and the combiner's temporary view is connection-scoped, so
// every statement must run on the same connection.
func Open(path string) (*DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}
	return &DB{sql: db}, nil
}

// Close releases the database connection. Safe to call on every exit path.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Exec runs a statement that returns no rows.
func (d *DB) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := d.sql.ExecContext(ctx, query, args...)
	return err
}

// Query runs a query returning rows.
func (d *DB) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return d.sql.QueryContext(ctx, query, args...)
}

// QueryRow runs a query expected to return at most one row.
func (d *DB) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return d.sql.QueryRowContext(ctx, query, args...)
}

// TableExists reports whether a base table with the given name exists.
func (d *DB) TableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := d.sql.QueryRowContext(ctx,
		"SELECT count(*) FROM information_schema.tables WHERE table_name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return count > 0, nil
}
