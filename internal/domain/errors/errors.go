// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for domain errors.
const (
	ErrCodeAuth        = "AUTH_ERROR"
	ErrCodeUpload      = "UPLOAD_ERROR"
	ErrCodeQuery       = "QUERY_ERROR"
	ErrCodeConfigFetch = "CONFIG_FETCH_ERROR"
	ErrCodeDecrypt     = "DECRYPT_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeConflict    = "CONFLICT"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// DomainError represents a domain-specific error.
type DomainError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewAuthError creates an error for a missing, invalid or
// expired-unrefreshable credential. Terminal for the current action; the user
// must re-authorize out of band.
func NewAuthError(message string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeAuth,
		Message:    message,
		Details:    detailsOf(err),
		HTTPStatus: http.StatusUnauthorized,
		Err:        err,
	}
}

// NewUploadError creates an error for a rejected upload or a malformed upload
// response. The details carry the remote response body when available.
func NewUploadError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeUpload,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewQueryError creates an error for a transient remote ask failure. Retried
// up to the engine's attempt budget, then surfaced as terminal.
func NewQueryError(message string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeQuery,
		Message:    message,
		Details:    detailsOf(err),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewConfigFetchError creates an error for a failed instruction-template
// fetch. Non-fatal to any active session; the caller rolls back its
// optimistic model selection.
func NewConfigFetchError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeConfigFetch,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewDecryptError creates an error for a corrupted credential store. The
// store self-heals by purging the blob and forcing re-authorization.
func NewDecryptError(message string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeDecrypt,
		Message:    message,
		Details:    detailsOf(err),
		HTTPStatus: http.StatusUnauthorized,
		Err:        err,
	}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, identifier string) *DomainError {
	return &DomainError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Details:    identifier,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeConflict,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusConflict,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeInternal,
		Message:    message,
		Details:    detailsOf(err),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func detailsOf(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}

// IsDomainError checks if the error is a domain error.
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == code
}

// IsAuthError checks if the error is a credential error.
func IsAuthError(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsUploadError checks if the error is an upload error.
func IsUploadError(err error) bool { return hasCode(err, ErrCodeUpload) }

// IsQueryError checks if the error is a transient query error.
func IsQueryError(err error) bool { return hasCode(err, ErrCodeQuery) }

// IsConfigFetchError checks if the error is a template fetch error.
func IsConfigFetchError(err error) bool { return hasCode(err, ErrCodeConfigFetch) }

// IsDecryptError checks if the error is a credential store decrypt error.
func IsDecryptError(err error) bool { return hasCode(err, ErrCodeDecrypt) }

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool { return hasCode(err, ErrCodeValidation) }
