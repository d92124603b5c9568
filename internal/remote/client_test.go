package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
	"github.com/zadnan82/newcv-sub002/internal/auth"
	"github.com/zadnan82/newcv-sub002/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestClient points a Client at handler and counts requests.
func newTestClient(t *testing.T, token string, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/resumes", auth.NewTokenSource(token), testLogger()), &calls
}

const serverResume = `{
	"id": 42,
	"title": "Backend CV",
	"is_public": false,
	"customization": {"template": "london", "accent_color": "#000", "font_family": "Inter", "line_spacing": 1.2},
	"personal_info": {"full_name": "Jane Doe", "email": "jane@example.com"},
	"languages": [{"id": 5, "language": "Swedish", "proficiency": "Native"}],
	"photos": {"photolink": "https://img.example.com/jane.png"}
}`

func TestList(t *testing.T) {
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/resumes/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, "["+serverResume+"]")
	})

	resumes, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, resumes, 1)
	assert.Equal(t, "42", resumes[0].ID)
	assert.Equal(t, "Swedish", resumes[0].Languages[0].Name)
	assert.Equal(t, "Native", resumes[0].Languages[0].Level)
}

func TestGet_ArrayUsesFirstElement(t *testing.T) {
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/resumes/42", r.URL.Path)
		_, _ = io.WriteString(w, "["+serverResume+`, {"id": 99, "title": "ignored"}]`)
	})

	r, err := client.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Backend CV", r.Title)
	assert.Equal(t, "https://img.example.com/jane.png", r.Photos.URL())
}

func TestCreate_SendsWirePayload(t *testing.T) {
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "server_id")
		assert.NotContains(t, body, "photo")
		langs := body["languages"].([]any)
		assert.Equal(t, "English", langs[0].(map[string]any)["language"])
		assert.NotContains(t, langs[0].(map[string]any), "id")

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, serverResume)
	})

	draft := model.Blank()
	draft.PersonalInfo.FullName = "Jane Doe"
	_, err := draft.AddItem(model.SectionLanguages, model.Language{Name: "English", Level: "C1"})
	require.NoError(t, err)

	created, err := client.Create(context.Background(), draft, nil)
	require.NoError(t, err)
	require.NotNil(t, created.ServerID)
	assert.Equal(t, int64(42), *created.ServerID)
}

func TestUpdate_NoContent(t *testing.T) {
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	r, err := client.Update(context.Background(), 42, model.Blank(), nil)
	require.NoError(t, err)
	assert.Nil(t, r, "204 is a successful null result")
}

func TestPhotoEndpoints(t *testing.T) {
	var seen []string
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			var body struct {
				Photolink string `json:"photolink"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "https://img.example.com/new.png", body.Photolink)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.PutPhoto(context.Background(), 7, "https://img.example.com/new.png"))
	require.NoError(t, client.DeletePhoto(context.Background(), 7))
	assert.Equal(t, []string{"PUT /api/resumes/7/photo", "DELETE /api/resumes/7/photo"}, seen)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"detail string", http.StatusNotFound, `{"detail": "Resume not found"}`, "Resume not found"},
		{"detail list", http.StatusUnprocessableEntity, `{"detail": [{"msg": "field required"}, {"msg": "too long"}]}`, "field required; too long"},
		{"no detail", http.StatusInternalServerError, `oops`, "Error 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Get(context.Background(), 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrRemote))
			assert.Equal(t, tt.wantMessage, apperror.Message(err))

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.status, appErr.Status)
		})
	}
}

func TestMissingTokenNeverHitsNetwork(t *testing.T) {
	client, calls := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not have been sent")
	})

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
	assert.Equal(t, "Authentication required.", apperror.Message(err))
	assert.Equal(t, int32(0), calls.Load())
}
