package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON or writeError, so every error
// response has the same shape:
//
//	{"error": "not_found", "message": "resume not found with id 42"}
//
// The browser editor shows Message verbatim, which for backend failures is
// the backend's own "detail" text.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
)

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable type, e.g. "not_found"
	Message string `json:"message"`         // human-readable description
	Field   string `json:"field,omitempty"` // offending input field, for validation errors
}

// maxBodyBytes bounds JSON request bodies. A whole resume fits comfortably.
const maxBodyBytes = 1 << 20

// writeJSON sends data with status. Headers go out before the body, so an
// encode failure can only be logged.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// errorStatus maps the apperror sentinels to HTTP. A backend 4xx is passed
// through so the editor can tell "not found" from "forbidden"; anything else
// from the backend is a bad gateway.
func errorStatus(err error) (int, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && errors.Is(appErr, apperror.ErrRemote) &&
		appErr.Status >= 400 && appErr.Status < 500 {
		return appErr.Status, "backend_error"
	}
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, apperror.ErrRemote):
		return http.StatusBadGateway, "backend_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError maps a domain error to its status and sends it. Errors outside
// the taxonomy become a generic 500; their text may carry file paths or SQL
// and is never sent.
func writeError(w http.ResponseWriter, err error) {
	status, errorType := errorStatus(err)
	if status == http.StatusInternalServerError {
		writeJSON(w, status, ErrorResponse{Error: errorType, Message: "An internal error occurred"})
		return
	}

	resp := ErrorResponse{Error: errorType, Message: err.Error()}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Field = appErr.Field
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body into dst and, when dst is a struct with
// validate tags, runs the validator over it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", fmt.Sprintf("invalid JSON body: %v", err))
	}
	if v == nil {
		return nil
	}
	if err := v.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			fe := ves[0]
			return apperror.ValidationFailed(fe.Field(), fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return apperror.ValidationFailed("body", err.Error())
	}
	return nil
}
