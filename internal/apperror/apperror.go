// Package apperror defines the error taxonomy shared by the store, the REST
// client and the local API.
//
// Every error a caller may want to branch on is an *AppError wrapping one of
// the sentinels below, so errors.Is works through any amount of fmt.Errorf
// wrapping, and Message stays safe to show to a user verbatim.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("Validation Error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrRemote          = errors.New("remote error")
)

// GenericMessage is shown when a failure carries no better description.
const GenericMessage = "An error occurred"

type AppError struct {
	Err     error  // sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Status  int    // Optional: HTTP status of a remote failure
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidID rejects the "no resume yet" sentinel and non-numeric ids before
// any request is built.
func InvalidID(id string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("invalid resume id %q", id),
		Field:   "id",
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated is returned before any network attempt when no usable
// bearer token is available.
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "Authentication required.",
	}
}

// Remote describes a non-2xx response. The server's detail is used verbatim
// when present, otherwise "Error {status}", otherwise GenericMessage.
func Remote(status int, detail string) *AppError {
	msg := detail
	switch {
	case msg != "":
	case status > 0:
		msg = fmt.Sprintf("Error %d", status)
	default:
		msg = GenericMessage
	}
	return &AppError{
		Err:     ErrRemote,
		Message: msg,
		Status:  status,
	}
}

// Message returns the user-facing text of err: the AppError message if there
// is one in the chain, GenericMessage otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return GenericMessage
}
