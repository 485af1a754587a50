package store

import (
	"context"

	"github.com/epccam/directory-api/internal/domain"
)

// RegionStore persists regions.
//
// As for every store below: Create assigns the new id to the entity, Update
// and Delete return ErrNotFound for an unknown id, List returns rows in
// table order and SearchByName matches a case-insensitive substring.
// GetByName is an exact match used for uniqueness checks.
type RegionStore interface {
	Create(ctx context.Context, r *domain.Region) error
	Update(ctx context.Context, r *domain.Region) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Region, error)
	GetByName(ctx context.Context, name string) (*domain.Region, error)
	List(ctx context.Context) ([]domain.Region, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.Region, error)
}

// DepartementStore persists departements.
type DepartementStore interface {
	Create(ctx context.Context, d *domain.Departement) error
	Update(ctx context.Context, d *domain.Departement) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Departement, error)
	GetByName(ctx context.Context, name string) (*domain.Departement, error)
	List(ctx context.Context) ([]domain.Departement, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.Departement, error)
	ListByRegion(ctx context.Context, regionID int64) ([]domain.Departement, error)
}

// ArrondissementStore persists arrondissements.
type ArrondissementStore interface {
	Create(ctx context.Context, a *domain.Arrondissement) error
	Update(ctx context.Context, a *domain.Arrondissement) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Arrondissement, error)
	GetByName(ctx context.Context, name string) (*domain.Arrondissement, error)
	List(ctx context.Context) ([]domain.Arrondissement, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.Arrondissement, error)
	ListByDepartement(ctx context.Context, departementID int64) ([]domain.Arrondissement, error)
}

// FonctionStore persists fonctions.
type FonctionStore interface {
	Create(ctx context.Context, f *domain.Fonction) error
	Update(ctx context.Context, f *domain.Fonction) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Fonction, error)
	GetByName(ctx context.Context, name string) (*domain.Fonction, error)
	List(ctx context.Context) ([]domain.Fonction, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.Fonction, error)
}

// TypeStructureStore persists type-structures and their fonction links.
type TypeStructureStore interface {
	Create(ctx context.Context, t *domain.TypeStructure) error
	Update(ctx context.Context, t *domain.TypeStructure) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.TypeStructure, error)
	GetByName(ctx context.Context, name string) (*domain.TypeStructure, error)
	List(ctx context.Context) ([]domain.TypeStructure, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.TypeStructure, error)

	// LinkFonction returns ErrDuplicate when the pair is already linked.
	LinkFonction(ctx context.Context, link *domain.TypeStructureFonction) error
	// UnlinkFonction returns ErrNotFound when the pair is not linked.
	UnlinkFonction(ctx context.Context, typeStructureID, fonctionID int64) error
	GetFonctionLink(ctx context.Context, typeStructureID, fonctionID int64) (*domain.TypeStructureFonction, error)
	ListFonctions(ctx context.Context, typeStructureID int64) ([]domain.TypeStructureFonction, error)
}

// StructureStore persists structures.
type StructureStore interface {
	Create(ctx context.Context, s *domain.Structure) error
	Update(ctx context.Context, s *domain.Structure) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Structure, error)
	GetByName(ctx context.Context, name string) (*domain.Structure, error)
	List(ctx context.Context) ([]domain.Structure, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.Structure, error)
	ListByType(ctx context.Context, typeStructureID int64) ([]domain.Structure, error)
	ListChildren(ctx context.Context, parentID int64) ([]domain.Structure, error)
}

// MembreStore persists membres. Update writes every column, including the
// consecration and avatar references.
type MembreStore interface {
	Create(ctx context.Context, m *domain.Membre) error
	Update(ctx context.Context, m *domain.Membre) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Membre, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Membre, error)
	List(ctx context.Context) ([]domain.Membre, error)
	SearchByName(ctx context.Context, fragment string) ([]domain.Membre, error)
}

// AffectationStore persists structure-membre assignments.
type AffectationStore interface {
	// Save inserts the assignment or replaces the one with the same
	// (structure, membre) pair.
	Save(ctx context.Context, a *domain.StructureMembre) error
	ListByMembre(ctx context.Context, membreID int64) ([]domain.StructureMembre, error)
}

// MediaStore persists media rows. Files are handled by the media package.
type MediaStore interface {
	Create(ctx context.Context, m *domain.Media) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Media, error)
	ListByStructure(ctx context.Context, structureID int64) ([]domain.Media, error)
}

// RoleStore reads roles. Roles are seeded by migrations.
type RoleStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

// UserStore persists user accounts.
type UserStore interface {
	// Create returns ErrDuplicate when the email or user name is taken.
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)
}
