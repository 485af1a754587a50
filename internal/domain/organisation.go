package domain

import "time"

// Fonction is a position a Membre can hold inside a Structure.
type Fonction struct {
	ID   int64
	Name string
}

// FonctionView is the JSON representation of a Fonction.
type FonctionView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// View returns the JSON representation of f.
func (f Fonction) View() FonctionView {
	return FonctionView{ID: f.ID, Name: f.Name}
}

// TypeStructure classifies structures. Types form a tree through ParentID.
type TypeStructure struct {
	ID       int64
	Name     string
	ParentID *int64
}

// TypeStructureFonction links a TypeStructure to a Fonction with the number
// of positions of that fonction a structure of the type has.
type TypeStructureFonction struct {
	TypeStructureID int64
	FonctionID      int64
	NombrePosition  int
}

// TypeStructureView nests the parent type's view; Parent is null at the root.
type TypeStructureView struct {
	ID     int64              `json:"id"`
	Name   string             `json:"name"`
	Parent *TypeStructureView `json:"parent"`
}

// NewTypeStructureView builds a nested view from an ancestor chain ordered
// from the type itself up to its root. An empty chain yields the zero view.
func NewTypeStructureView(chain []TypeStructure) TypeStructureView {
	if len(chain) == 0 {
		return TypeStructureView{}
	}
	view := TypeStructureView{ID: chain[0].ID, Name: chain[0].Name}
	if len(chain) > 1 {
		parent := NewTypeStructureView(chain[1:])
		view.Parent = &parent
	}
	return view
}

// FonctionPositionView is a fonction with its position count, as listed
// under a type-structure.
type FonctionPositionView struct {
	Fonction FonctionView `json:"fonction"`
	Nombre   int          `json:"nombre"`
}

// TypeStructureFonctionView is the full association view.
type TypeStructureFonctionView struct {
	TypeStructure TypeStructureView `json:"typestructure"`
	Fonction      FonctionView      `json:"fonction"`
	Nombre        int               `json:"nombre"`
}

// TypeStructureWithFonctionsView adds the linked fonctions to the type view.
type TypeStructureWithFonctionsView struct {
	TypeStructureView
	Fonctions []FonctionPositionView `json:"fonctions"`
}

// Structure is an organisational unit (e.g. a parish) located in an
// Arrondissement. Structures form a tree through ParentID.
type Structure struct {
	ID                int64
	Name              string
	Adresse           *string
	Contacts          string
	NombreCommunicant int
	NombreBaptise     int
	DateCreation      time.Time
	TypeStructureID   int64
	ArrondissementID  int64
	ParentID          *int64
}

// StructureView is the full view of a structure including its medias.
type StructureView struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Adresse           *string            `json:"adresse"`
	Contacts          string             `json:"contacts"`
	NombreCommunicant int                `json:"nombre_communicant"`
	NombreBaptise     int                `json:"nombre_baptise"`
	Type              TypeStructureView  `json:"type"`
	Arrondissement    ArrondissementView `json:"arrondissement"`
	Medias            []MediaView        `json:"medias"`
}

// StructureShortView omits descendants; Parent is the parent's full view.
type StructureShortView struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Adresse  *string        `json:"adresse"`
	Contacts string         `json:"contacts"`
	Parent   *StructureView `json:"parent,omitempty"`
}

// StructureDetailView is returned when a single structure is read; Parent is
// the parent's short view.
type StructureDetailView struct {
	Parent            *StructureShortView `json:"parent,omitempty"`
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Adresse           *string             `json:"adresse"`
	Contacts          string              `json:"contacts"`
	NombreCommunicant int                 `json:"nombre_communicant"`
	NombreBaptise     int                 `json:"nombre_baptise"`
	Type              TypeStructureView   `json:"type"`
	Arrondissement    ArrondissementView  `json:"arrondissement"`
}

// NewStructureView assembles the full view of s.
func NewStructureView(s Structure, typ TypeStructureView, arr ArrondissementView, medias []MediaView) StructureView {
	if medias == nil {
		medias = []MediaView{}
	}
	return StructureView{
		ID:                s.ID,
		Name:              s.Name,
		Adresse:           s.Adresse,
		Contacts:          s.Contacts,
		NombreCommunicant: s.NombreCommunicant,
		NombreBaptise:     s.NombreBaptise,
		Type:              typ,
		Arrondissement:    arr,
		Medias:            medias,
	}
}

// NewStructureShortView assembles the short view of s. parent may be nil.
func NewStructureShortView(s Structure, parent *StructureView) StructureShortView {
	return StructureShortView{
		ID:       s.ID,
		Name:     s.Name,
		Adresse:  s.Adresse,
		Contacts: s.Contacts,
		Parent:   parent,
	}
}

// Detail converts a full view into the detail view with the given parent.
func (v StructureView) Detail(parent *StructureShortView) StructureDetailView {
	return StructureDetailView{
		Parent:            parent,
		ID:                v.ID,
		Name:              v.Name,
		Adresse:           v.Adresse,
		Contacts:          v.Contacts,
		NombreCommunicant: v.NombreCommunicant,
		NombreBaptise:     v.NombreBaptise,
		Type:              v.Type,
		Arrondissement:    v.Arrondissement,
	}
}
