package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/constitution-api/internal/api/shared"
	"github.com/phrazzld/constitution-api/internal/catalog"
	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/domain/scoring"
	"github.com/phrazzld/constitution-api/internal/service"
	"github.com/phrazzld/constitution-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Not found errors
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrSessionNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, service.ErrIncompleteAnswers),
		errors.Is(err, service.ErrUnknownQuestion),
		errors.Is(err, service.ErrUnknownOption),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Catalog preconditions: the questionnaire cannot be served yet
	case errors.Is(err, catalog.ErrCatalogNotLoaded),
		errors.Is(err, catalog.ErrEmptyCategories),
		errors.Is(err, scoring.ErrNoCategories):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrSessionNotFound):
		return "Answer session not found"

	case errors.Is(err, service.ErrIncompleteAnswers):
		return "Please answer every question before requesting a result"

	case errors.Is(err, service.ErrUnknownQuestion):
		return "Unknown question"

	case errors.Is(err, service.ErrUnknownOption):
		return "Unknown answer option"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation):
		var fieldErr *domain.ValidationError
		if errors.As(err, &fieldErr) {
			return fmt.Sprintf("Invalid %s", fieldErr.Field)
		}
		return "Invalid request"

	case errors.Is(err, catalog.ErrCatalogNotLoaded),
		errors.Is(err, catalog.ErrEmptyCategories),
		errors.Is(err, scoring.ErrNoCategories):
		return "The questionnaire is temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a user-friendly message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fieldErr := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s",
			strings.ToLower(fieldErr.Field()), getValidationTagMessage(fieldErr.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. A non-empty
// fallbackMessage replaces the generic message of unmapped errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
