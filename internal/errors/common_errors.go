package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeEmptyInput      ErrorType = "EMPTY_INPUT"
	ErrTypeFileRead        ErrorType = "FILE_READ"
	ErrTypeSchema          ErrorType = "SCHEMA"
	ErrTypeTimestampFormat ErrorType = "TIMESTAMP_FORMAT"
	ErrTypeStorage         ErrorType = "STORAGE"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeConfig          ErrorType = "CONFIG"
	ErrTypeCanceled        ErrorType = "CANCELED"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewEmptyInputError reports that no qualifying input was found.
func NewEmptyInputError(message string) *AppError {
	return NewAppError(ErrTypeEmptyInput, message, nil)
}

// NewFileReadError reports that a candidate file could not be read as a table.
// The merge that produced it is aborted for the whole batch.
func NewFileReadError(path string, cause error) *AppError {
	return NewAppError(ErrTypeFileRead, fmt.Sprintf("failed to read %s", path), cause).
		WithContext("file", path)
}

// NewSchemaError reports a required column that is missing or unusable.
func NewSchemaError(column, message string) *AppError {
	return NewAppError(ErrTypeSchema, message, nil).WithContext("column", column)
}

// NewTimestampFormatError reports a timestamp cell that does not match the layout.
func NewTimestampFormatError(row int, value string, cause error) *AppError {
	return NewAppError(ErrTypeTimestampFormat,
		fmt.Sprintf("row %d: cannot parse timestamp %q", row, value), cause).
		WithContext("row", row).
		WithContext("value", value)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewCanceledError reports a run stopped by its context. cause is ctx.Err(),
// so errors.Is(err, context.Canceled) still holds.
func NewCanceledError(cause error) *AppError {
	return NewAppError(ErrTypeCanceled, "processing canceled", cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	return err != nil && TypeOf(err) == errType
}

// IsRetryable reports whether picking another folder may fix err.
// Schema and timestamp errors mean the data itself is incompatible.
func IsRetryable(err error) bool {
	switch TypeOf(err) {
	case ErrTypeEmptyInput, ErrTypeFileRead:
		return true
	default:
		return false
	}
}
