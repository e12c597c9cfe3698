// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotEnoughTrades = errors.New("not enough trades for analysis")
	ErrNoTradesFound   = errors.New("no trades found")
	ErrTradeNotFound   = errors.New("trade not found")
	ErrInvalidTrade    = errors.New("invalid trade")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrDatabaseError   = errors.New("database error")
)

// ImportError represents a user-correctable problem with an imported file:
// no qualifying table or section, missing header columns, or zero valid rows.
// It is descriptive and safe to show to the user as-is.
type ImportError struct {
	Format  string // "statement", "report"
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import error [%s]: %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("import error [%s]: %s", e.Format, e.Message)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError.
func NewImportError(format, message string, err error) *ImportError {
	return &ImportError{
		Format:  format,
		Message: message,
		Err:     err,
	}
}

// RowError represents a single malformed row during import. Rows failing with
// RowError are logged and skipped; they never abort the import on their own.
type RowError struct {
	Row    int
	Column string
	Reason string
	Err    error
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d [%s]: %s: %v", e.Row, e.Column, e.Reason, e.Err)
	}
	return fmt.Sprintf("row %d [%s]: %s", e.Row, e.Column, e.Reason)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError creates a new RowError.
func NewRowError(row int, column, reason string, err error) *RowError {
	return &RowError{
		Row:    row,
		Column: column,
		Reason: reason,
		Err:    err,
	}
}

// EnrichmentError represents a failure of the optional enrichment service:
// network, auth, timeout, or a response that does not match the expected shape.
// The analysis degrades to the offline result; this never surfaces as a hard
// failure of the analyze operation.
type EnrichmentError struct {
	Stage string // "request", "decode", "validate"
	Err   error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment error [%s]: %v", e.Stage, e.Err)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// NewEnrichmentError creates a new EnrichmentError.
func NewEnrichmentError(stage string, err error) *EnrichmentError {
	return &EnrichmentError{
		Stage: stage,
		Err:   err,
	}
}

// ValidationError represents a validation error on user input.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
