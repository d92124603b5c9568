package handler

import "net/http"

type tokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// HandleSetToken stores the backend bearer token.
//
// HTTP: PUT /api/auth/token
// REQUEST BODY: {"token": "eyJ..."}
func (h *ResumeHandler) HandleSetToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(w, r, h.validate, &req); err != nil {
		writeError(w, err)
		return
	}
	h.tokens.Set(req.Token)
	h.logger.Info("backend token updated")
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearToken forgets the token. Later backend calls fail with 401.
//
// HTTP: DELETE /api/auth/token
func (h *ResumeHandler) HandleClearToken(w http.ResponseWriter, r *http.Request) {
	h.tokens.Clear()
	h.logger.Info("backend token cleared")
	w.WriteHeader(http.StatusNoContent)
}
