package api

import (
	"net/http"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/service/directory"
)

// StructureImageField is the multipart field of structure media uploads.
const StructureImageField = "structure_image"

// StructureHandler serves /structures and their medias.
type StructureHandler struct {
	svc     directory.StructureService
	uploads uploads
}

// NewStructureHandler creates a StructureHandler accepting uploads of up to
// maxUploadBytes.
func NewStructureHandler(svc directory.StructureService, maxUploadBytes int64) *StructureHandler {
	return &StructureHandler{svc: svc, uploads: uploads{maxBytes: maxUploadBytes}}
}

// Create handles POST /structures.
func (h *StructureHandler) Create(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.Create)
}

// Update handles PUT /structures/{id}.
func (h *StructureHandler) Update(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Update)
}

// Delete handles DELETE /structures/{id}.
func (h *StructureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.svc.Delete)
}

// List handles GET /structures.
func (h *StructureHandler) List(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.List)
}

// structureDetailResponse puts medias and sub-structures beside data.
type structureDetailResponse struct {
	Success       bool                        `json:"success"`
	Data          domain.StructureDetailView  `json:"data"`
	Medias        []domain.MediaView          `json:"medias"`
	Substructures []domain.StructureShortView `json:"substructures"`
}

// Lookup reads a structure with its medias and sub-structures by id, or
// searches structures by name.
func (h *StructureHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, h.detail, h.svc.Search)
}

func (h *StructureHandler) detail(w http.ResponseWriter, r *http.Request, id int64) {
	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, structureDetailResponse{
		Success:       true,
		Data:          d.Data,
		Medias:        d.Medias,
		Substructures: d.Substructures,
	})
}

// AttachMedia handles POST /structures/{id}/medias.
func (h *StructureHandler) AttachMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	u, release, ok := h.uploads.read(w, r, StructureImageField)
	if !ok {
		return
	}
	defer release()

	view, err := h.svc.AttachMedia(r.Context(), id, u)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, view, "")
}

// DetachMedia handles DELETE /structures/{id}/medias/{mediaID}.
func (h *StructureHandler) DetachMedia(w http.ResponseWriter, r *http.Request) {
	id, mediaID, ok := twoIDs(w, r, "mediaID")
	if !ok {
		return
	}
	view, err := h.svc.DetachMedia(r.Context(), id, mediaID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, view, "")
}
