package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput = NewAPIError("INVALID_INPUT", "All fields are required.", http.StatusBadRequest)
	ErrUnauthorized = NewAPIError("UNAUTHORIZED", "Authentication required.", http.StatusUnauthorized)
	ErrNotFound     = NewAPIError("NOT_FOUND", "Resource not found.", http.StatusNotFound)
	ErrInternal     = NewAPIError("INTERNAL_SERVER_ERROR", "Internal Server Error. Please try again.", http.StatusInternalServerError)
	ErrConflict     = NewAPIError("CONFLICT", "Resource conflict.", http.StatusConflict)
)

// Validation builds a 400-class error with a user-facing message.
func Validation(message string) *APIError {
	return NewAPIError("INVALID_INPUT", message, http.StatusBadRequest)
}

// Conflict builds a 400 error for redundant or duplicate operations.
// Business conflicts (already following, username taken) surface as
// plain 400s rather than 409s.
func Conflict(message string) *APIError {
	return NewAPIError("CONFLICT", message, http.StatusBadRequest)
}

// Unauthorized builds a 401 with a user-facing message.
func Unauthorized(message string) *APIError {
	return NewAPIError("UNAUTHORIZED", message, http.StatusUnauthorized)
}

func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}
