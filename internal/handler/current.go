package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers for edits of the current resume. Each one applies its change
// through the editor session and answers with the updated Current, so the
// editor can re-render from the response alone.

type titleRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type currentFlagRequest struct {
	Current *bool `json:"current" validate:"required"`
}

type addItemResponse struct {
	ID string `json:"id"`
}

// HandleAddItem appends an item to a section.
//
// HTTP: POST /api/current/sections/{section}
// RESPONSE: {"id": "local_..."}
func (h *ResumeHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var item json.RawMessage
	if err := decodeJSON(w, r, nil, &item); err != nil {
		writeError(w, err)
		return
	}
	id, err := h.session.AddItem(r.Context(), chi.URLParam(r, "section"), item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addItemResponse{ID: id})
}

// HandleUpdateItem merges the body into one item.
//
// HTTP: PATCH /api/current/sections/{section}/{itemID}
func (h *ResumeHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch json.RawMessage
	if err := decodeJSON(w, r, nil, &patch); err != nil {
		writeError(w, err)
		return
	}
	err := h.session.UpdateItem(r.Context(), chi.URLParam(r, "section"), chi.URLParam(r, "itemID"), patch)
	h.respondCurrent(w, err)
}

// HandleRemoveItem drops one item.
//
// HTTP: DELETE /api/current/sections/{section}/{itemID}
func (h *ResumeHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	err := h.session.RemoveItem(r.Context(), chi.URLParam(r, "section"), chi.URLParam(r, "itemID"))
	h.respondCurrent(w, err)
}

// HandleReorder replaces a section with the body, a JSON array holding the
// same items in their new order.
//
// HTTP: PUT /api/current/sections/{section}
func (h *ResumeHandler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var items json.RawMessage
	if err := decodeJSON(w, r, nil, &items); err != nil {
		writeError(w, err)
		return
	}
	err := h.session.ReorderItems(r.Context(), chi.URLParam(r, "section"), items)
	h.respondCurrent(w, err)
}

// HandleSetItemCurrent flips the "current" flag of a dated item.
//
// HTTP: PUT /api/current/sections/{section}/{itemID}/current
// REQUEST BODY: {"current": true}
func (h *ResumeHandler) HandleSetItemCurrent(w http.ResponseWriter, r *http.Request) {
	var req currentFlagRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, err)
		return
	}
	err := h.session.SetCurrent(r.Context(), chi.URLParam(r, "section"), chi.URLParam(r, "itemID"), *req.Current)
	h.respondCurrent(w, err)
}

// HandlePersonalInfo merges the body into the personal info.
//
// HTTP: PATCH /api/current/personal-info
// REQUEST BODY: {"full_name": "Ada Lovelace", "city": "London"}
func (h *ResumeHandler) HandlePersonalInfo(w http.ResponseWriter, r *http.Request) {
	var patch map[string]string
	if err := decodeJSON(w, r, nil, &patch); err != nil {
		writeError(w, err)
		return
	}
	h.respondCurrent(w, h.session.UpdatePersonalInfo(r.Context(), patch))
}

// HandleTitle sets the resume title.
//
// HTTP: PUT /api/current/title
// REQUEST BODY: {"title": "Backend Engineer"}
func (h *ResumeHandler) HandleTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, err)
		return
	}
	h.respondCurrent(w, h.session.UpdateTitle(r.Context(), req.Title))
}

// HandleCustomization merges the body into the customization.
//
// HTTP: PATCH /api/current/customization
func (h *ResumeHandler) HandleCustomization(w http.ResponseWriter, r *http.Request) {
	var patch json.RawMessage
	if err := decodeJSON(w, r, nil, &patch); err != nil {
		writeError(w, err)
		return
	}
	h.respondCurrent(w, h.session.UpdateCustomization(r.Context(), patch))
}

func (h *ResumeHandler) respondCurrent(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Snapshot().Current)
}
