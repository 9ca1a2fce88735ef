package store

import (
	"fmt"
	"regexp"
	"strings"
)

// tableNameRe is the allow-list for table names under program control.
// Table names are interpolated into DDL, so anything outside this set is
// rejected outright rather than escaped.
var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName rejects table names outside the identifier allow-list.
func ValidateTableName(name string) error {
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name %q: must match %s", name, tableNameRe.String())
	}
	return nil
}

// QuoteIdent quotes a column identifier for SQL. Source extracts carry
// arbitrary headers (spaces, punctuation, non-ASCII), so identifiers are
// always double-quoted with embedded quotes doubled.
func QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// QuoteString quotes a string literal (paths, filter values) for SQL.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteStringList renders a DuckDB list literal of quoted strings,
// e.g. ['a.parquet', 'b.parquet'].
func QuoteStringList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = QuoteString(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
