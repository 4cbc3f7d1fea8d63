// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/csv-analyst/backend/internal/models"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewSessionNotFoundError creates a 404 error for an unknown session
func NewSessionNotFoundError() *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "SESSION_NOT_FOUND",
		Message: "Session not found",
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// fromDomainError translates sentinel errors from the dataset and store
// layers into transport errors. Missing-column and oracle failures never
// pass through here: the query router folds those into 200 payloads.
func fromDomainError(err error) *APIError {
	switch {
	case errors.Is(err, models.ErrUnsupportedFormat):
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    "UNSUPPORTED_FORMAT",
			Message: "Only CSV and Excel files are supported",
		}
	case errors.Is(err, models.ErrParse):
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    "PARSE_ERROR",
			Message: "Error reading file",
			Details: err.Error(),
		}
	case errors.Is(err, models.ErrSessionNotFound):
		return NewSessionNotFoundError()
	default:
		return NewInternalError("An unexpected error occurred", err)
	}
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
			Details: err.Error(),
		}
	}

	if !c.Response().Committed {
		c.JSON(apiErr.Status, apiErr)
	}
}

// RespondWithError is a helper to respond with an APIError
func RespondWithError(c echo.Context, err *APIError) error {
	return c.JSON(err.Status, err)
}
