package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies pipeline failures. Every failure is terminal for the
// run; the type tells the operator which part of the run to look at.
type ErrorType string

const (
	ErrTypeMissingInput ErrorType = "MISSING_INPUT"
	ErrTypeLoad         ErrorType = "LOAD_FAILED"
	ErrTypeQuery        ErrorType = "QUERY_FAILED"
	ErrTypeExport       ErrorType = "EXPORT_FAILED"
	ErrTypeConfig       ErrorType = "CONFIG_INVALID"
)

// PipelineError represents a classified pipeline failure.
type PipelineError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with PipelineError
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new classified pipeline error
func New(errType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper constructors for the error taxonomy

// MissingInput reports a configured source file that does not exist.
// Raised before any load attempt so no partial table is ever created.
func MissingInput(path string) *PipelineError {
	return New(ErrTypeMissingInput, fmt.Sprintf("input file not found: %s", path), nil).
		WithContext("path", path)
}

// LoadFailed reports a bulk-load failure for the named table.
func LoadFailed(table string, cause error) *PipelineError {
	return New(ErrTypeLoad, fmt.Sprintf("failed to load table %s", table), cause).
		WithContext("table", table)
}

// QueryFailed reports a transformation SQL failure.
func QueryFailed(stage string, cause error) *PipelineError {
	return New(ErrTypeQuery, fmt.Sprintf("query failed in stage %s", stage), cause).
		WithContext("stage", stage)
}

// ExportFailed reports a report-write failure.
func ExportFailed(path string, cause error) *PipelineError {
	return New(ErrTypeExport, fmt.Sprintf("failed to export report to %s", path), cause).
		WithContext("path", path)
}

// ConfigInvalid reports a configuration validation failure.
func ConfigInvalid(message string, cause error) *PipelineError {
	return New(ErrTypeConfig, message, cause)
}

// IsType reports whether err (or anything it wraps) is a PipelineError of the
// given type.
func IsType(err error, errType ErrorType) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}
