package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
	"github.com/zadnan82/newcv-sub002/internal/auth"
	"github.com/zadnan82/newcv-sub002/internal/editor"
	"github.com/zadnan82/newcv-sub002/internal/model"
	"github.com/zadnan82/newcv-sub002/internal/service"
)

// Uploader hosts a photo and returns its public URL. *upload.Client
// implements it.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ResumeHandler exposes the draft store to browser editors.
//
// Reads and CRUD go straight to the ResumeService. Edits of the current
// resume go through the editor Session so they are autosaved.
type ResumeHandler struct {
	svc      *service.ResumeService
	session  *editor.Session
	uploader Uploader
	tokens   *auth.TokenSource
	validate *validator.Validate
	logger   *slog.Logger
}

// NewResumeHandler creates a ResumeHandler. uploader may be nil, in which
// case photo uploads are rejected.
func NewResumeHandler(svc *service.ResumeService, session *editor.Session, uploader Uploader, tokens *auth.TokenSource, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{
		svc:      svc,
		session:  session,
		uploader: uploader,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

// HandleState returns the full store state.
//
// HTTP: GET /api/state
func (h *ResumeHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Snapshot())
}

// HandleList fetches the user's resumes from the backend.
//
// HTTP: GET /api/resumes
func (h *ResumeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	resumes, err := h.svc.FetchResumes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resumes)
}

// HandleGet fetches one resume and makes it current.
//
// HTTP: GET /api/resumes/{id}
func (h *ResumeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.FetchResume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleCreate saves a resume to the backend. An empty body saves the
// current resume.
//
// HTTP: POST /api/resumes
func (h *ResumeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := optionalResume(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	// Whatever autosave has pending must not be lost to the sync.
	h.session.Flush()

	created, err := h.svc.CreateResume(r.Context(), body)
	if err != nil {
		writeError(w, err)
		return
	}
	if created == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate saves a resume under id. Local ids are saved to client
// storage only.
//
// HTTP: PATCH /api/resumes/{id}
func (h *ResumeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := optionalResume(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if body != nil && body.ID == "" {
		body.ID = id
	}
	h.session.Flush()

	updated, err := h.svc.UpdateResume(r.Context(), id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	if updated == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes a resume.
//
// HTTP: DELETE /api/resumes/{id}
func (h *ResumeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "resume id is required"))
		return
	}
	if err := h.svc.DeleteResume(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleNewDraft starts a blank local draft.
//
// HTTP: POST /api/drafts
func (h *ResumeHandler) HandleNewDraft(w http.ResponseWriter, r *http.Request) {
	// A pending autosave of the old draft would overwrite the new one.
	h.session.Discard()

	res, err := h.svc.StartNewResume(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleSetCurrent replaces the current resume with the body.
//
// HTTP: PUT /api/current
func (h *ResumeHandler) HandleSetCurrent(w http.ResponseWriter, r *http.Request) {
	var body model.Resume
	if err := decodeJSON(w, r, nil, &body); err != nil {
		writeError(w, err)
		return
	}
	h.session.Discard()
	if err := h.svc.SetCurrentResume(r.Context(), &body); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Snapshot().Current)
}

// optionalResume decodes a resume body, returning nil for an empty body.
func optionalResume(w http.ResponseWriter, r *http.Request) (*model.Resume, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, apperror.ValidationFailed("body", "request body too large")
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var res model.Resume
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, apperror.ValidationFailed("body", "invalid resume JSON: "+err.Error())
	}
	return &res, nil
}
