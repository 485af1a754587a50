package api

import (
	"net/http"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/service/directory"
)

// MembreImageField is the multipart field of avatar uploads.
const MembreImageField = "membre_image"

// MembreHandler serves /membres, their avatar, consecration and
// assignments.
type MembreHandler struct {
	svc     directory.MembreService
	uploads uploads
}

// NewMembreHandler creates a MembreHandler accepting avatars of up to
// maxUploadBytes.
func NewMembreHandler(svc directory.MembreService, maxUploadBytes int64) *MembreHandler {
	return &MembreHandler{svc: svc, uploads: uploads{maxBytes: maxUploadBytes}}
}

// Create handles POST /membres.
func (h *MembreHandler) Create(w http.ResponseWriter, r *http.Request) {
	createWith(decodeEntry, w, r, h.svc.Create)
}

// Update handles PUT /membres/{id}.
func (h *MembreHandler) Update(w http.ResponseWriter, r *http.Request) {
	updateWith(decodeEntry, w, r, h.svc.Update)
}

// Delete handles DELETE /membres/{id}.
func (h *MembreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.svc.Delete)
}

// List handles GET /membres.
func (h *MembreHandler) List(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.List)
}

// Lookup reads a membre by id or searches membres by full name.
func (h *MembreHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, get(h.svc.Get), h.svc.Search)
}

// Consecrate handles PATCH /membres/{id}.
func (h *MembreHandler) Consecrate(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Consecrate)
}

// Assign handles POST /membres/{id}/structures.
func (h *MembreHandler) Assign(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Assign)
}

// AttachAvatar handles POST /membres/{id}/medias.
func (h *MembreHandler) AttachAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	u, release, ok := h.uploads.read(w, r, MembreImageField)
	if !ok {
		return
	}
	defer release()

	view, err := h.svc.AttachAvatar(r.Context(), id, u)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, view, "")
}

// DetachAvatar handles DELETE /membres/{id}/medias/{mediaID}.
func (h *MembreHandler) DetachAvatar(w http.ResponseWriter, r *http.Request) {
	id, mediaID, ok := twoIDs(w, r, "mediaID")
	if !ok {
		return
	}
	view, err := h.svc.DetachAvatar(r.Context(), id, mediaID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, view, "")
}
