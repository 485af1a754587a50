// Package store defines the persistence interfaces of the directory: one
// store per table, a Repos bundle grouping them, and a UnitOfWork that runs a
// function against a transaction-scoped Repos. Implementations live in
// internal/platform/postgres and, for tests, internal/mocks.
package store
