// Package shared contains common domain errors and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Authorization errors
	ErrUnauthenticated = errors.New("unauthenticated")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "azkar", "progress", "assistant"
	Op      string // Operation that failed, e.g., "Create", "Update"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Catalog domain errors
var (
	ErrZikrNotFound    = NewDomainError("azkar", "Find", ErrNotFound, "zikr not found")
	ErrInvalidCategory = NewDomainError("azkar", "Validate", ErrInvalidInput, "category must be one of morning, evening, sleep, travel, general")
	ErrInvalidZikrID   = NewDomainError("azkar", "Validate", ErrInvalidID, "invalid zikr ID")
	ErrEmptyZikrText   = NewDomainError("azkar", "Validate", ErrEmptyValue, "zikr text cannot be empty")
	ErrInvalidRepeats  = NewDomainError("azkar", "Validate", ErrValueOutOfRange, "repetitions must be positive")
	ErrEmptySearchTerm = NewDomainError("azkar", "Search", ErrEmptyValue, "search term cannot be empty")
)

// Progress domain errors
var (
	ErrProgressNotFound     = NewDomainError("progress", "Find", ErrNotFound, "progress record not found")
	ErrProgressExists       = NewDomainError("progress", "Create", ErrAlreadyExists, "progress record already exists")
	ErrNegativeCompletion   = NewDomainError("progress", "Validate", ErrNegativeValue, "completed count cannot be negative")
	ErrDailySummaryNotFound = NewDomainError("progress", "FindDaily", ErrNotFound, "daily summary not found")
	ErrInvalidDate          = NewDomainError("progress", "Validate", ErrInvalidFormat, "date must be YYYY-MM-DD")
	ErrInvalidDateRange     = NewDomainError("progress", "Validate", ErrInvalidInput, "from must not be after to")
)

// Assistant domain errors
var (
	ErrQuestionNotFound   = NewDomainError("assistant", "Find", ErrNotFound, "question not found")
	ErrEmptyQuestion      = NewDomainError("assistant", "Validate", ErrEmptyValue, "question cannot be empty")
	ErrInvalidLevel       = NewDomainError("assistant", "Validate", ErrInvalidInput, "level must be one of beginner, intermediate, advanced")
	ErrEmptyCompletion    = NewDomainError("assistant", "Complete", ErrInvalidFormat, "completion returned no choices")
	ErrCompletionRejected = NewDomainError("assistant", "Complete", ErrExternalService, "completion request rejected")
)

// External service errors
var (
	ErrCompletionAPIUnavailable = NewDomainError("openai", "Request", ErrServiceUnavailable, "completion API is unavailable")
	ErrCompletionAPIRateLimited = NewDomainError("openai", "Request", ErrRateLimited, "completion API rate limit exceeded")
	ErrCompletionAPITimeout     = NewDomainError("openai", "Request", ErrTimeout, "completion API request timeout")
	ErrCompletionAPIBadResponse = NewDomainError("openai", "Parse", ErrInvalidFormat, "invalid response from completion API")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsUnauthenticated checks if the error means no user could be resolved.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsConflict checks if the error is a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}
