// Package files provides input-file precondition checks for the pipeline.
package files
