// Package directory implements the use cases of the organisational
// directory: regions, departements, arrondissements, fonctions,
// type-structures, structures and membres.
//
// Every service receives a store.UnitOfWork. Reads go through Repos, while
// writes run their existence and uniqueness pre-checks and the mutation
// inside one transaction (WithinTx), so a check and the write it guards
// commit together.
//
// Services return *domain.Error values. Store sentinels are translated here:
// store.ErrNotFound on the addressed entity becomes "Resource not found",
// store.ErrDuplicate becomes a conflict carrying the resource's duplicate
// message, and store.ErrInvalidEntity (a row still referenced elsewhere, or a
// reference that vanished concurrently) becomes a conflict as well. Anything
// else is a persistence error whose cause is only ever logged.
//
// Results are returned as the nested JSON views of the domain package; the
// hydration helpers in views.go walk parent references upward with
// domain.Ancestors so that a corrupted hierarchy cannot loop forever.
package directory
