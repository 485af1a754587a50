// Package domain contains the entities of the directory: the administrative
// geography (regions, departements, arrondissements), the organisation
// (fonctions, type-structures, structures), membres with their media and
// structure assignments, and the role-based accounts.
//
// Entities are plain structs keyed by int64 ids; relations are held as ids
// and resolved by the service layer, which assembles the nested JSON views
// defined here. Hierarchies (type-structures, structures) are walked with
// Ancestors, which refuses cycles.
package domain
