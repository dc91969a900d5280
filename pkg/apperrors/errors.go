// Package apperrors defines the typed errors services return so that the
// delivery layer can map them to status codes without string matching.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorType classifies an AppError.
type ErrorType string

const (
	// TypeNotFound marks a referenced user or entity that does not exist.
	TypeNotFound ErrorType = "NOT_FOUND"

	// TypeValidation marks input rejected at a boundary validation check.
	TypeValidation ErrorType = "VALIDATION"

	// TypeUnavailable marks reference data or a collaborator that could not
	// be reached or loaded.
	TypeUnavailable ErrorType = "UNAVAILABLE"

	// TypeInternal marks everything else.
	TypeInternal ErrorType = "INTERNAL"
)

// AppError is an error with a type and a caller-safe message.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...any) *AppError {
	return &AppError{Type: TypeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *AppError {
	return &AppError{Type: TypeValidation, Message: fmt.Sprintf(format, args...)}
}

func Unavailable(message string, err error) *AppError {
	return &AppError{Type: TypeUnavailable, Message: message, Err: err}
}

func Internal(message string, err error) *AppError {
	return &AppError{Type: TypeInternal, Message: message, Err: err}
}

// TypeOf returns the type of the first AppError in err's chain, or
// TypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return TypeInternal
}

// IsNotFound reports whether err carries TypeNotFound.
func IsNotFound(err error) bool {
	return err != nil && TypeOf(err) == TypeNotFound
}

// HTTPStatus maps err to an HTTP status code.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case TypeNotFound:
		return http.StatusNotFound
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a caller. Internal errors
// are not described.
func PublicMessage(err error) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Type != TypeInternal {
		return ae.Message
	}
	return "internal error"
}

// ToHTTP converts err into an echo.HTTPError carrying the mapped status and
// public message. err is kept as the internal cause for logging.
func ToHTTP(err error) error {
	if err == nil {
		return nil
	}
	return echo.NewHTTPError(HTTPStatus(err), PublicMessage(err)).SetInternal(err)
}
