package api

import (
	"net/http"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/service/directory"
	"github.com/epccam/directory-api/internal/validate"
)

// FonctionHandler serves /fonctions.
type FonctionHandler struct {
	svc directory.FonctionService
}

// NewFonctionHandler creates a FonctionHandler.
func NewFonctionHandler(svc directory.FonctionService) *FonctionHandler {
	return &FonctionHandler{svc: svc}
}

// Create handles POST /fonctions.
func (h *FonctionHandler) Create(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.Create)
}

// Update handles PUT /fonctions/{id}.
func (h *FonctionHandler) Update(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Update)
}

// Delete handles DELETE /fonctions/{id}.
func (h *FonctionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.svc.Delete)
}

// List handles GET /fonctions.
func (h *FonctionHandler) List(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.List)
}

// Lookup reads a fonction by id or searches fonctions by name.
func (h *FonctionHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, get(h.svc.Get), h.svc.Search)
}

// TypeStructureHandler serves /typestructures and the links between
// structure types and fonctions.
type TypeStructureHandler struct {
	svc directory.TypeStructureService
}

// NewTypeStructureHandler creates a TypeStructureHandler.
func NewTypeStructureHandler(svc directory.TypeStructureService) *TypeStructureHandler {
	return &TypeStructureHandler{svc: svc}
}

// Create handles POST /typestructures.
func (h *TypeStructureHandler) Create(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.Create)
}

// Update handles PUT /typestructures/{id}.
func (h *TypeStructureHandler) Update(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Update)
}

// Delete handles DELETE /typestructures/{id}.
func (h *TypeStructureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.svc.Delete)
}

// List handles GET /typestructures.
func (h *TypeStructureHandler) List(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.List)
}

// Lookup reads a structure type by id or searches structure types by name.
func (h *TypeStructureHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, get(h.svc.Get), h.svc.Search)
}

// Fonctions lists the fonctions of a structure type with their positions.
func (h *TypeStructureHandler) Fonctions(w http.ResponseWriter, r *http.Request) {
	children(w, r, h.svc.Fonctions)
}

// Structures lists the structures of a structure type.
func (h *TypeStructureHandler) Structures(w http.ResponseWriter, r *http.Request) {
	children(w, r, h.svc.Structures)
}

// LinkFonction handles POST /typestructures/{id}/fonctions/{fonctionID}.
func (h *TypeStructureHandler) LinkFonction(w http.ResponseWriter, r *http.Request) {
	id, fonctionID, ok := twoIDs(w, r, "fonctionID")
	if !ok {
		return
	}
	var in validate.FonctionLinkInput
	if !decodeBody(w, r, &in) {
		return
	}
	view, err := h.svc.LinkFonction(r.Context(), id, fonctionID, in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, view, "")
}

// UnlinkFonction handles DELETE /typestructures/{id}/fonctions/{fonctionID}.
func (h *TypeStructureHandler) UnlinkFonction(w http.ResponseWriter, r *http.Request) {
	id, fonctionID, ok := twoIDs(w, r, "fonctionID")
	if !ok {
		return
	}
	view, err := h.svc.UnlinkFonction(r.Context(), id, fonctionID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, view, "")
}

// twoIDs parses {id} and a second integer path parameter, writing a 404 on
// failure.
func twoIDs(w http.ResponseWriter, r *http.Request, second string) (int64, int64, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return 0, 0, false
	}
	other, err := pathID(r, second)
	if err != nil {
		HandleAPIError(w, r, err)
		return 0, 0, false
	}
	return id, other, true
}
