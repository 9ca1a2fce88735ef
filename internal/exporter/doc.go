// Package exporter writes the final Averages table to report files.
//
// The canonical output is a semicolon-delimited, double-quoted CSV with a
// header row, produced by the engine's COPY statement and named with a
// second-granularity run timestamp. An optional XLSX rendition of the same
// table can be enabled for operators working in Excel.
package exporter
