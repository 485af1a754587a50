package api

import (
	"net/http"

	"github.com/epccam/directory-api/internal/service/directory"
)

// RegionHandler serves /regions.
type RegionHandler struct {
	svc directory.RegionService
}

// NewRegionHandler creates a RegionHandler.
func NewRegionHandler(svc directory.RegionService) *RegionHandler {
	return &RegionHandler{svc: svc}
}

// Create handles POST /regions.
func (h *RegionHandler) Create(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.Create)
}

// Update handles PUT /regions/{id}.
func (h *RegionHandler) Update(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Update)
}

// Delete handles DELETE /regions/{id}.
func (h *RegionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.svc.Delete)
}

// List handles GET /regions.
func (h *RegionHandler) List(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.List)
}

// Lookup reads a region by id or searches regions by name.
func (h *RegionHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, get(h.svc.Get), h.svc.Search)
}

// Departements lists the departements of a region.
func (h *RegionHandler) Departements(w http.ResponseWriter, r *http.Request) {
	children(w, r, h.svc.Departements)
}

// DepartementHandler serves /departements.
type DepartementHandler struct {
	svc directory.DepartementService
}

// NewDepartementHandler creates a DepartementHandler.
func NewDepartementHandler(svc directory.DepartementService) *DepartementHandler {
	return &DepartementHandler{svc: svc}
}

// Create handles POST /departements.
func (h *DepartementHandler) Create(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.Create)
}

// Update handles PUT /departements/{id}.
func (h *DepartementHandler) Update(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Update)
}

// Delete handles DELETE /departements/{id}.
func (h *DepartementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.svc.Delete)
}

// List handles GET /departements.
func (h *DepartementHandler) List(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.List)
}

// Lookup reads a departement by id or searches departements by name.
func (h *DepartementHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, get(h.svc.Get), h.svc.Search)
}

// Arrondissements lists the arrondissements of a departement.
func (h *DepartementHandler) Arrondissements(w http.ResponseWriter, r *http.Request) {
	children(w, r, h.svc.Arrondissements)
}

// ArrondissementHandler serves /arrondissements.
type ArrondissementHandler struct {
	svc directory.ArrondissementService
}

// NewArrondissementHandler creates an ArrondissementHandler.
func NewArrondissementHandler(svc directory.ArrondissementService) *ArrondissementHandler {
	return &ArrondissementHandler{svc: svc}
}

// Create handles POST /arrondissements.
func (h *ArrondissementHandler) Create(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.Create)
}

// Update handles PUT /arrondissements/{id}.
func (h *ArrondissementHandler) Update(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.Update)
}

// Delete handles DELETE /arrondissements/{id}.
func (h *ArrondissementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.svc.Delete)
}

// List handles GET /arrondissements.
func (h *ArrondissementHandler) List(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.svc.List)
}

// Lookup reads an arrondissement by id or searches arrondissements by name.
func (h *ArrondissementHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	lookup(w, r, get(h.svc.Get), h.svc.Search)
}
