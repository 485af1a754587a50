package domain

import "time"

// Genre is a member's sex as stored: "M" or "F".
type Genre string

// Genre values.
const (
	GenreMale   Genre = "M"
	GenreFemale Genre = "F"
)

// MaritalStatus is stored as "M" (married), "C" (single) or "V" (widowed).
type MaritalStatus string

// MaritalStatus values.
const (
	MaritalMarried MaritalStatus = "M"
	MaritalSingle  MaritalStatus = "C"
	MaritalWidowed MaritalStatus = "V"
)

// Membre is a person registered in the directory. Each membre is linked to
// exactly one user account and belongs to one Arrondissement.
type Membre struct {
	ID                      int64
	FullName                string
	Genre                   Genre
	DateOfBirth             time.Time
	PlaceOfBirth            string
	Mother                  string
	Father                  string
	MaritalStatus           MaritalStatus
	Conjoint                string
	NbEnfant                int
	Contacts                string
	Adresse                 string
	ArrondissementID        int64
	UserID                  int64
	DateConsecration        *time.Time
	ConsecrationStructureID *int64
	AvatarID                *int64
	CreatedAt               time.Time
	UpdatedAt               *time.Time
}

// StructureMembre assigns a Membre to a Structure with a Fonction. The pair
// (StructureID, MembreID) is unique. Actuel marks a current assignment.
type StructureMembre struct {
	StructureID     int64
	MembreID        int64
	FonctionID      int64
	DateAffectation time.Time
	Actuel          bool
}

// AffectationView is one entry of a membre's structure history.
type AffectationView struct {
	Structure       StructureShortView `json:"structure"`
	Fonction        FonctionView       `json:"fonction"`
	DateAffectation time.Time          `json:"date_affectation"`
	Actuel          bool               `json:"actuel"`
}

// MembreView is the JSON representation of a Membre.
type MembreView struct {
	ID               int64              `json:"id"`
	FullName         string             `json:"fullname"`
	Genre            Genre              `json:"genre"`
	DateOfBirth      time.Time          `json:"dob"`
	PlaceOfBirth     string             `json:"pob"`
	Mother           string             `json:"mother"`
	Father           string             `json:"father"`
	MaritalStatus    MaritalStatus      `json:"statusm"`
	Conjoint         string             `json:"conjoint"`
	NbEnfant         int                `json:"nbenfant"`
	Contacts         string             `json:"contacts"`
	Adresse          string             `json:"adresse"`
	Arrondissement   ArrondissementView `json:"arrondissement"`
	UserID           int64              `json:"userid"`
	DateConsecration *time.Time         `json:"date_consecration"`
	Consecratoire    *StructureView     `json:"consecratoire"`
	Avatar           *MediaView         `json:"avatar"`
	Structures       []AffectationView  `json:"structures"`
}

// NewMembreView assembles the view of m from already-built related views.
func NewMembreView(
	m Membre,
	arr ArrondissementView,
	consecratoire *StructureView,
	avatar *MediaView,
	structures []AffectationView,
) MembreView {
	if structures == nil {
		structures = []AffectationView{}
	}
	return MembreView{
		ID:               m.ID,
		FullName:         m.FullName,
		Genre:            m.Genre,
		DateOfBirth:      m.DateOfBirth,
		PlaceOfBirth:     m.PlaceOfBirth,
		Mother:           m.Mother,
		Father:           m.Father,
		MaritalStatus:    m.MaritalStatus,
		Conjoint:         m.Conjoint,
		NbEnfant:         m.NbEnfant,
		Contacts:         m.Contacts,
		Adresse:          m.Adresse,
		Arrondissement:   arr,
		UserID:           m.UserID,
		DateConsecration: m.DateConsecration,
		Consecratoire:    consecratoire,
		Avatar:           avatar,
		Structures:       structures,
	}
}
