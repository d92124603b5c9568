package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantType    string
		wantMessage string
	}{
		{"validation", apperror.ValidationFailed("title", "too long"), http.StatusBadRequest, "validation_error", "too long"},
		{"unauthenticated", fmt.Errorf("remote: listing: %w", apperror.Unauthenticated()), http.StatusUnauthorized, "unauthenticated", "Authentication required."},
		{"not found", apperror.NotFound("resume", "3"), http.StatusNotFound, "not_found", "resume not found with id 3"},
		{"backend 422", apperror.Remote(422, "field required"), http.StatusUnprocessableEntity, "backend_error", "field required"},
		{"backend 500", apperror.Remote(500, ""), http.StatusBadGateway, "backend_error", "Error 500"},
		{"plain sentinel", fmt.Errorf("importer: %w", apperror.ErrValidation), http.StatusBadRequest, "validation_error", "importer: Validation Error"},
		{"unknown", errors.New("disk I/O error at /var/db"), http.StatusInternalServerError, "internal_error", "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantType, body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}
