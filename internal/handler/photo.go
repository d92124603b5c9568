package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
	"github.com/zadnan82/newcv-sub002/internal/upload"
)

type photoRequest struct {
	Photolink string `json:"photolink" validate:"required,url"`
}

type photoResponse struct {
	Photolink string `json:"photolink"`
}

// HandlePutPhoto sets the photo link of a resume.
//
// HTTP: PUT /api/resumes/{id}/photo
// REQUEST BODY: {"photolink": "https://..."}
func (h *ResumeHandler) HandlePutPhoto(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.UpdatePhoto(r.Context(), req.Photolink, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photoResponse{Photolink: req.Photolink})
}

// HandleDeletePhoto clears the photo of a resume.
//
// HTTP: DELETE /api/resumes/{id}/photo
func (h *ResumeHandler) HandleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePhoto(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadPhoto forwards a multipart "file" to the image host and sets
// the returned URL as the current resume's photo.
//
// HTTP: POST /api/photo-upload (multipart/form-data)
func (h *ResumeHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, apperror.ValidationFailed("upload", "image upload is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxImageBytes+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperror.ValidationFailed("file", "a multipart file field is required"))
		return
	}
	defer file.Close()

	link, err := h.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.UpdatePhoto(r.Context(), link, ""); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photoResponse{Photolink: link})
}
