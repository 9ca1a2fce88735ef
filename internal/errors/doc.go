// Package errors defines the classified error taxonomy for the report
// pipeline: missing inputs, bulk-load failures, transformation query
// failures, export failures, and configuration errors. Every error is
// terminal for the run; there are no retries anywhere in the pipeline.
package errors
