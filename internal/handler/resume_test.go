package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
	"github.com/zadnan82/newcv-sub002/internal/auth"
	"github.com/zadnan82/newcv-sub002/internal/draft"
	"github.com/zadnan82/newcv-sub002/internal/editor"
	"github.com/zadnan82/newcv-sub002/internal/handler"
	"github.com/zadnan82/newcv-sub002/internal/model"
	"github.com/zadnan82/newcv-sub002/internal/remote"
	"github.com/zadnan82/newcv-sub002/internal/repository/memory"
	"github.com/zadnan82/newcv-sub002/internal/service"
)

// =========================================================================
// TEST RIG
// =========================================================================
//
// The rig wires the real stack: an httptest backend speaking the server
// schema, remote.Client, an in-memory draft store, the ResumeService and an
// editor Session, all behind the chi router. Only the image host is mocked.

const backendResume = `{
	"id": 7,
	"title": "Saved CV",
	"customization": {"template": "london"},
	"personal_info": {"full_name": "Jane Doe"},
	"experience": [],
	"photos": null
}`

type mockUploader struct {
	gotName string
	gotBody string
	link    string
	err     error
}

func (m *mockUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	b, _ := io.ReadAll(r)
	m.gotName, m.gotBody = filename, string(b)
	return m.link, m.err
}

type rig struct {
	router   *chi.Mux
	svc      *service.ResumeService
	session  *editor.Session
	drafts   *draft.Store
	tokens   *auth.TokenSource
	uploader *mockUploader

	mu       sync.Mutex
	requests []string
}

func (r *rig) backendCalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.requests...)
}

func newRig(t *testing.T) *rig {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	rg := &rig{uploader: &mockUploader{link: "https://img.example.com/new.png"}}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rg.mu.Lock()
		rg.requests = append(rg.requests, r.Method+" "+r.URL.Path)
		rg.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/resumes/":
			_, _ = io.WriteString(w, "["+backendResume+"]")
		case r.Method == http.MethodGet && r.URL.Path == "/api/resumes/7":
			_, _ = io.WriteString(w, backendResume)
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail": "Resume not found"}`)
		case r.Method == http.MethodPost, r.Method == http.MethodPatch:
			_, _ = io.WriteString(w, backendResume)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(backend.Close)

	rg.tokens = auth.NewTokenSource("test-token")
	rg.drafts = draft.NewStore(memory.New(), logger)
	client := remote.New(backend.URL+"/api/resumes", rg.tokens, logger)
	rg.svc = service.NewResumeService(client, rg.drafts, logger, service.Options{DeferLocalWrites: true})
	rg.session = editor.NewSession(rg.svc, time.Hour, logger)
	t.Cleanup(func() { rg.session.Close(true) })

	h := handler.NewResumeHandler(rg.svc, rg.session, rg.uploader, rg.tokens, logger)
	rg.router = chi.NewRouter()
	rg.router.Route("/api", h.Routes)
	return rg
}

func (r *rig) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), rr.Body.String())
	return v
}

func (r *rig) startDraft(t *testing.T) *model.Resume {
	t.Helper()
	rr := r.do(t, http.MethodPost, "/api/drafts", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[*model.Resume](t, rr)
}

// =========================================================================
// STATE AND CRUD
// =========================================================================

func TestState_Empty(t *testing.T) {
	rg := newRig(t)

	rr := rg.do(t, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var st map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.Nil(t, st["current"])
	assert.Equal(t, []any{}, st["resumes"])
	assert.Equal(t, false, st["loading"])
	assert.Equal(t, false, st["is_editing_locally"])
}

func TestNewDraft(t *testing.T) {
	rg := newRig(t)

	res := rg.startDraft(t)
	assert.True(t, model.IsLocalID(res.ID))

	st := rg.svc.Snapshot()
	assert.True(t, st.EditingLocally)
	assert.Equal(t, res.ID, st.Current.ID)
	assert.Empty(t, rg.backendCalls(), "a new draft never touches the backend")
}

func TestListAndGet(t *testing.T) {
	rg := newRig(t)

	rr := rg.do(t, http.MethodGet, "/api/resumes", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]*model.Resume](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, "7", list[0].ID)

	rr = rg.do(t, http.MethodGet, "/api/resumes/7", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Saved CV", decode[*model.Resume](t, rr).Title)
	assert.False(t, rg.svc.Snapshot().EditingLocally)
}

func TestGet_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantType   string
		wantCalls  int
	}{
		{"sentinel id", "/api/resumes/default_resume", http.StatusBadRequest, "validation_error", 0},
		{"local id", "/api/resumes/local_abc", http.StatusBadRequest, "validation_error", 0},
		{"backend 404", "/api/resumes/99", http.StatusNotFound, "backend_error", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := newRig(t)
			rr := rg.do(t, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantStatus, rr.Code)

			body := decode[handler.ErrorResponse](t, rr)
			assert.Equal(t, tt.wantType, body.Error)
			assert.NotEmpty(t, body.Message)
			assert.Len(t, rg.backendCalls(), tt.wantCalls)
		})
	}
}

func TestGet_BackendDetailIsTheMessage(t *testing.T) {
	rg := newRig(t)
	rr := rg.do(t, http.MethodGet, "/api/resumes/99", "")
	assert.Equal(t, "Resume not found", decode[handler.ErrorResponse](t, rr).Message)
	assert.Equal(t, "Resume not found", rg.svc.Snapshot().Error)
}

func TestCreate_CurrentDraft(t *testing.T) {
	rg := newRig(t)
	rg.startDraft(t)

	rr := rg.do(t, http.MethodPost, "/api/resumes", "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "7", decode[*model.Resume](t, rr).ID)

	st := rg.svc.Snapshot()
	assert.False(t, st.EditingLocally)
	assert.Equal(t, "7", st.Current.ID)

	id, ok, err := rg.drafts.SavedServerID(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7", id)
	assert.Equal(t, []string{"POST /api/resumes/"}, rg.backendCalls())
}

func TestCreate_Unauthenticated(t *testing.T) {
	rg := newRig(t)
	rg.startDraft(t)
	rr := rg.do(t, http.MethodDelete, "/api/auth/token", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = rg.do(t, http.MethodPost, "/api/resumes", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Authentication required.", decode[handler.ErrorResponse](t, rr).Message)
	assert.Empty(t, rg.backendCalls())
}

func TestCreate_BadJSON(t *testing.T) {
	rg := newRig(t)
	rr := rg.do(t, http.MethodPost, "/api/resumes", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "body", decode[handler.ErrorResponse](t, rr).Field)
}

func TestUpdate_LocalIDStaysOffTheNetwork(t *testing.T) {
	rg := newRig(t)
	res := rg.startDraft(t)

	rr := rg.do(t, http.MethodPatch, "/api/resumes/"+res.ID, `{"title": "Edited offline"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Edited offline", decode[*model.Resume](t, rr).Title)
	assert.Empty(t, rg.backendCalls())

	stored, err := rg.drafts.GetResumeFromLocal(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Edited offline", stored.Title)
}

func TestDelete(t *testing.T) {
	rg := newRig(t)
	rg.do(t, http.MethodGet, "/api/resumes/7", "")

	rr := rg.do(t, http.MethodDelete, "/api/resumes/7", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Nil(t, rg.svc.Snapshot().Current)
	assert.Contains(t, rg.backendCalls(), "DELETE /api/resumes/7")
}

func TestSetCurrent(t *testing.T) {
	rg := newRig(t)

	rr := rg.do(t, http.MethodPut, "/api/current", `{"title": "Imported", "personal_info": {"full_name": "Ann"}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	cur := decode[*model.Resume](t, rr)
	assert.True(t, model.IsLocalID(cur.ID))
	assert.NotEmpty(t, cur.ID)
	assert.Equal(t, "Ann", cur.PersonalInfo.FullName)
	assert.True(t, rg.svc.Snapshot().EditingLocally)
}

// =========================================================================
// EDITS OF THE CURRENT RESUME
// =========================================================================

func TestSectionItemLifecycle(t *testing.T) {
	rg := newRig(t)
	rg.startDraft(t)

	rr := rg.do(t, http.MethodPost, "/api/current/sections/experience", `{"company": "Acme", "start_date": "2020-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	first := decode[map[string]string](t, rr)["id"]
	require.True(t, model.IsLocalID(first))

	rr = rg.do(t, http.MethodPost, "/api/current/sections/experience", `{"company": "Globex"}`)
	second := decode[map[string]string](t, rr)["id"]

	rr = rg.do(t, http.MethodPatch, "/api/current/sections/experience/"+first, `{"position": "Engineer"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	cur := decode[*model.Resume](t, rr)
	assert.Equal(t, "Engineer", cur.Experience[0].Position)
	assert.Equal(t, "Acme", cur.Experience[0].Company, "patch is a merge")

	rr = rg.do(t, http.MethodPut, "/api/current/sections/experience/"+first+"/current", `{"current": true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	cur = decode[*model.Resume](t, rr)
	assert.True(t, cur.Experience[0].Current)
	assert.Empty(t, cur.Experience[0].EndDate)

	reordered, err := json.Marshal([]model.Experience{cur.Experience[1], cur.Experience[0]})
	require.NoError(t, err)
	rr = rg.do(t, http.MethodPut, "/api/current/sections/experience", string(reordered))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, second, decode[*model.Resume](t, rr).Experience[0].ID)

	rr = rg.do(t, http.MethodDelete, "/api/current/sections/experience/"+second, "")
	require.Equal(t, http.StatusOK, rr.Code)
	cur = decode[*model.Resume](t, rr)
	require.Len(t, cur.Experience, 1)
	assert.Equal(t, first, cur.Experience[0].ID)

	// Edits are autosaved: nothing hits storage until the session flushes.
	rg.session.Flush()
	stored, err := rg.drafts.GetResumeFromLocal(context.Background())
	require.NoError(t, err)
	require.Len(t, stored.Experience, 1)
	assert.Empty(t, rg.backendCalls())
}

func TestSectionErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"unknown section", http.MethodPost, "/api/current/sections/awards", `{"name": "x"}`},
		{"missing current flag", http.MethodPut, "/api/current/sections/experience/x/current", `{}`},
		{"flag on undated section", http.MethodPut, "/api/current/sections/skills/x/current", `{"current": true}`},
		{"reorder with new items", http.MethodPut, "/api/current/sections/skills", `[{"id": "local_new", "name": "Go"}]`},
		{"empty body", http.MethodPost, "/api/current/sections/skills", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := newRig(t)
			rg.startDraft(t)
			rr := rg.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.Equal(t, "validation_error", decode[handler.ErrorResponse](t, rr).Error)
		})
	}
}

func TestPersonalInfoTitleCustomization(t *testing.T) {
	rg := newRig(t)
	rg.startDraft(t)

	rr := rg.do(t, http.MethodPatch, "/api/current/personal-info", `{"full_name": "  Ada  ", "unknown": "x"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Ada", decode[*model.Resume](t, rr).PersonalInfo.FullName)

	rr = rg.do(t, http.MethodPut, "/api/current/title", `{"title": "Platform CV"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Platform CV", decode[*model.Resume](t, rr).Title)

	rr = rg.do(t, http.MethodPut, "/api/current/title", `{"title": "`+strings.Repeat("x", 201)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Title", decode[handler.ErrorResponse](t, rr).Field)

	rr = rg.do(t, http.MethodPatch, "/api/current/customization", `{"template": "berlin", "accent_color": "#ff0000"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	cur := decode[*model.Resume](t, rr)
	assert.Equal(t, "berlin", cur.Template)
	assert.Equal(t, "#ff0000", cur.Customization.AccentColor)
}

func TestEditsWithoutCurrentAreNoOps(t *testing.T) {
	rg := newRig(t)
	rr := rg.do(t, http.MethodPut, "/api/current/title", `{"title": "Nobody home"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null\n", rr.Body.String())
}

// =========================================================================
// PHOTO
// =========================================================================

func TestPutPhoto_Validation(t *testing.T) {
	rg := newRig(t)
	rr := rg.do(t, http.MethodPut, "/api/resumes/7/photo", `{"photolink": "not a url"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Photolink", decode[handler.ErrorResponse](t, rr).Field)
	assert.Empty(t, rg.backendCalls())
}

func TestPutAndDeletePhoto_Server(t *testing.T) {
	rg := newRig(t)
	rg.do(t, http.MethodGet, "/api/resumes/7", "")

	rr := rg.do(t, http.MethodPut, "/api/resumes/7/photo", `{"photolink": "https://img.example.com/a.png"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "https://img.example.com/a.png", rg.svc.Snapshot().Current.Photos.URL())

	rr = rg.do(t, http.MethodDelete, "/api/resumes/7/photo", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rg.svc.Snapshot().Current.Photos.URL())

	calls := rg.backendCalls()
	assert.Contains(t, calls, "PUT /api/resumes/7/photo")
	assert.Contains(t, calls, "DELETE /api/resumes/7/photo")
}

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadPhoto(t *testing.T) {
	rg := newRig(t)
	rg.startDraft(t)

	body, contentType := multipartBody(t, "file", "me.png", "PNGDATA")
	req := httptest.NewRequest(http.MethodPost, "/api/photo-upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	rg.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "https://img.example.com/new.png", decode[map[string]string](t, rr)["photolink"])
	assert.Equal(t, "me.png", rg.uploader.gotName)
	assert.Equal(t, "PNGDATA", rg.uploader.gotBody)
	assert.Equal(t, "https://img.example.com/new.png", rg.svc.Snapshot().Current.Photos.URL())
	assert.Empty(t, rg.backendCalls(), "a local draft keeps its photo locally")
}

func TestUploadPhoto_Errors(t *testing.T) {
	t.Run("missing file field", func(t *testing.T) {
		rg := newRig(t)
		body, contentType := multipartBody(t, "other", "me.png", "x")
		req := httptest.NewRequest(http.MethodPost, "/api/photo-upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		rg.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("image host failure", func(t *testing.T) {
		rg := newRig(t)
		rg.startDraft(t)
		rg.uploader.err = apperror.Remote(http.StatusBadRequest, "Invalid image file")

		body, contentType := multipartBody(t, "file", "me.png", "x")
		req := httptest.NewRequest(http.MethodPost, "/api/photo-upload", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		rg.router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid image file", decode[handler.ErrorResponse](t, rr).Message)
		assert.Empty(t, rg.svc.Snapshot().Current.Photos.URL())
	})
}

// =========================================================================
// TOKEN
// =========================================================================

func TestToken(t *testing.T) {
	rg := newRig(t)

	rr := rg.do(t, http.MethodPut, "/api/auth/token", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = rg.do(t, http.MethodPut, "/api/auth/token", `{"token": "Bearer fresh"}`)
	require.Equal(t, http.StatusNoContent, rr.Code)
	tok, err := rg.tokens.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)

	rr = rg.do(t, http.MethodDelete, "/api/auth/token", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	_, err = rg.tokens.Token()
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
}
