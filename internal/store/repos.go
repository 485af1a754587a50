package store

import "context"

// Repos bundles every store so that a use case can be handed one value, bound
// either to the connection pool or to a single transaction.
type Repos struct {
	Regions         RegionStore
	Departements    DepartementStore
	Arrondissements ArrondissementStore
	Fonctions       FonctionStore
	TypeStructures  TypeStructureStore
	Structures      StructureStore
	Membres         MembreStore
	Affectations    AffectationStore
	Medias          MediaStore
	Roles           RoleStore
	Users           UserStore
}

// UnitOfWork hands out stores. Reads use Repos; multi-step writes run inside
// WithinTx so that their pre-checks and mutations commit or roll back
// together.
type UnitOfWork interface {
	Repos() Repos
	// WithinTx runs fn with stores bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
