// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"stock-ingest/internal/models"
)

// Standard sentinel errors
var (
	ErrDataNotFound     = errors.New("data not found")
	ErrConnectionFailed = errors.New("connection failed")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrMalformedRecord  = errors.New("malformed provider record")
)

// BatchError represents a whole-group upstream failure for one category.
type BatchError struct {
	Category models.Category
	Symbols  []string
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch error [%s] group [%s]: %v", e.Category, strings.Join(e.Symbols, ","), e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// NewBatchError creates a new BatchError.
func NewBatchError(category models.Category, symbols []string, err error) *BatchError {
	return &BatchError{
		Category: category,
		Symbols:  symbols,
		Err:      err,
	}
}

// DataError represents a per-symbol extraction or normalization failure.
type DataError struct {
	Category models.Category
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.Category, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.Category, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(category models.Category, symbol, message string, err error) *DataError {
	return &DataError{
		Category: category,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// StoreError represents a persistence failure.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Err:       err,
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
