// Package derrors provides custom error types for restql-assist.
// The lexer and completion engine are total and never fail; these types cover
// the boundaries around them: configuration, cursor input, the tenant API and
// the resource cache.
package derrors

import (
	"fmt"
)

// AssistError is the base interface for all restql-assist errors
type AssistError interface {
	error
	// Code returns a unique error code for programmatic error handling
	Code() string
}

// baseError provides common functionality for all restql-assist errors
type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ConfigurationError represents errors in configuration files
type ConfigurationError struct {
	baseError
	Path string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(path string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			code:    "CONFIG_ERROR",
			message: message,
			cause:   cause,
		},
		Path: path,
	}
}

// ValidationError represents errors during validation
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new validation error
func NewValidationError(field string, message string, cause error) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			code:    "VALIDATION_ERROR",
			message: message,
			cause:   cause,
		},
		Field: field,
	}
}

// APIError represents a failed call to the tenant/resource API
type APIError struct {
	baseError
	Endpoint string
	Status   int
}

// NewAPIError creates a new API error. status is 0 when no response was received.
func NewAPIError(endpoint string, status int, message string, cause error) *APIError {
	return &APIError{
		baseError: baseError{
			code:    "API_ERROR",
			message: message,
			cause:   cause,
		},
		Endpoint: endpoint,
		Status:   status,
	}
}

// CacheError represents errors in cache operations
type CacheError struct {
	baseError
	Path string
}

// NewCacheError creates a new cache error
func NewCacheError(path string, message string, cause error) *CacheError {
	return &CacheError{
		baseError: baseError{
			code:    "CACHE_ERROR",
			message: message,
			cause:   cause,
		},
		Path: path,
	}
}

// NotFoundError represents errors when a resource is not found
type NotFoundError struct {
	baseError
	Resource string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, message string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			code:    "NOT_FOUND",
			message: message,
			cause:   nil,
		},
		Resource: resource,
	}
}

// PositionError represents a malformed cursor position given on the command line
type PositionError struct {
	baseError
	Input string
}

// NewPositionError creates a new position error
func NewPositionError(input string, message string, cause error) *PositionError {
	return &PositionError{
		baseError: baseError{
			code:    "POSITION_ERROR",
			message: fmt.Sprintf("invalid position %q: %s", input, message),
			cause:   cause,
		},
		Input: input,
	}
}
