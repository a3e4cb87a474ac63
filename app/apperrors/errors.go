package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Storage and service level sentinel errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate key")
	ErrConflict     = errors.New("write conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// ResponseError is an error that carries the HTTP status and the body the
// client should see.
type ResponseError struct {
	Status  int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	cause   error
}

func (e *ResponseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *ResponseError) Unwrap() error {
	return e.cause
}

// New builds a ResponseError with the given status and message.
func New(status int, message string) *ResponseError {
	return &ResponseError{Status: status, Message: message}
}

// Wrap builds a ResponseError that keeps err as its cause.
func Wrap(status int, message string, err error) *ResponseError {
	return &ResponseError{Status: status, Message: message, cause: err}
}

// Validation reports per-field input problems.
func Validation(fields map[string]string) *ResponseError {
	return &ResponseError{Status: http.StatusBadRequest, Message: "Validation errors", Errors: fields}
}

// Field is a shortcut for a validation failure on a single field.
func Field(field, message string) *ResponseError {
	return Validation(map[string]string{field: message})
}

// BadRequest is used for malformed input that is not tied to a body field.
func BadRequest(message string) *ResponseError {
	return New(http.StatusBadRequest, message)
}

// NotFound returns "<entity> not found".
func NotFound(entity string) *ResponseError {
	return Wrap(http.StatusNotFound, entity+" not found", ErrNotFound)
}

// InvalidID returns "Invalid <entity> id".
func InvalidID(entity string) *ResponseError {
	return New(http.StatusBadRequest, "Invalid "+strings.ToLower(entity)+" id")
}

// Unauthorized is returned when the request carries no valid identity.
func Unauthorized(message string) *ResponseError {
	return Wrap(http.StatusUnauthorized, message, ErrUnauthorized)
}

// Forbidden is returned when the identity lacks permission.
func Forbidden(message string) *ResponseError {
	return Wrap(http.StatusForbidden, message, ErrForbidden)
}

// Conflict is returned when a write could not be applied after retrying.
func Conflict(message string, err error) *ResponseError {
	return Wrap(http.StatusConflict, message, err)
}

// As extracts a ResponseError from err. Unknown errors become a generic 500
// so storage details never reach the client.
func As(err error) *ResponseError {
	var re *ResponseError
	if errors.As(err, &re) {
		return re
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return Wrap(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized("Unauthorized")
	case errors.Is(err, ErrForbidden):
		return Forbidden("Forbidden")
	case errors.Is(err, ErrConflict):
		return Conflict("Concurrent update, please retry", err)
	}
	return Wrap(http.StatusInternalServerError, "Internal server error", err)
}
