// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver. Every store accepts a store.DBTX so
// that it can run against the pool or inside a transaction; UnitOfWork binds
// a full set of stores to either. The schema lives in the embedded goose
// migrations under migrations/.
package postgres
