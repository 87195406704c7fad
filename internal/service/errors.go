package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/constitution-api/internal/store"
)

// Common service errors. The API layer maps them to HTTP status codes.
var (
	// ErrIncompleteAnswers indicates a result was requested before every
	// catalog question was answered. API layer should map this to 400.
	ErrIncompleteAnswers = errors.New("not every question has been answered")

	// ErrUnknownQuestion indicates an answer referenced a question that is not in the catalog.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrUnknownOption indicates an answer value is not one of the question's options.
	ErrUnknownOption = errors.New("unknown option")

	// ErrSessionNotFound indicates the answer session does not exist or has expired.
	// API layer should map this to 404.
	ErrSessionNotFound = errors.New("answer session not found")
)

// ServiceError wraps unexpected errors from the assessment service with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "evaluate", "record_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assessment service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("assessment service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// Store-level session misses are translated to ErrSessionNotFound and
// returned without wrapping.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, store.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
