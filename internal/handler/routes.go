package handler

import "github.com/go-chi/chi/v5"

// Routes registers the local API under r. The server mounts it at /api.
//
// ROUTE STRUCTURE:
// GET    /state                                       store snapshot
// GET    /resumes                                     fetch all from the backend
// GET    /resumes/{id}                                fetch one, make it current
// POST   /resumes                                     create (empty body: current)
// PATCH  /resumes/{id}                                update (local ids: draft only)
// DELETE /resumes/{id}                                delete
// PUT    /resumes/{id}/photo, DELETE /resumes/{id}/photo
// POST   /drafts                                      start a blank draft
// PUT    /current                                     replace the current resume
// POST   /current/sections/{section}                  add item
// PUT    /current/sections/{section}                  reorder
// PATCH  /current/sections/{section}/{itemID}         update item
// DELETE /current/sections/{section}/{itemID}         remove item
// PUT    /current/sections/{section}/{itemID}/current set the current flag
// PATCH  /current/personal-info
// PUT    /current/title
// PATCH  /current/customization
// POST   /photo-upload                                upload, then set current photo
// PUT    /auth/token, DELETE /auth/token
func (h *ResumeHandler) Routes(r chi.Router) {
	r.Get("/state", h.HandleState)

	r.Route("/resumes", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleGet)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
		r.Put("/{id}/photo", h.HandlePutPhoto)
		r.Delete("/{id}/photo", h.HandleDeletePhoto)
	})

	r.Post("/drafts", h.HandleNewDraft)

	r.Route("/current", func(r chi.Router) {
		r.Put("/", h.HandleSetCurrent)
		r.Post("/sections/{section}", h.HandleAddItem)
		r.Put("/sections/{section}", h.HandleReorder)
		r.Patch("/sections/{section}/{itemID}", h.HandleUpdateItem)
		r.Delete("/sections/{section}/{itemID}", h.HandleRemoveItem)
		r.Put("/sections/{section}/{itemID}/current", h.HandleSetItemCurrent)
		r.Patch("/personal-info", h.HandlePersonalInfo)
		r.Put("/title", h.HandleTitle)
		r.Patch("/customization", h.HandleCustomization)
	})

	r.Post("/photo-upload", h.HandleUploadPhoto)

	r.Put("/auth/token", h.HandleSetToken)
	r.Delete("/auth/token", h.HandleClearToken)
}
