// Package mocks provides test doubles shared by the service and API tests.
//
// Memory is an in-memory implementation of every store with the constraints
// the PostgreSQL schema declares: unique names, foreign keys, cascades and
// SET NULL references. Its UnitOfWork snapshots the data before each
// transaction and restores it when the function fails, so rollback behaviour
// can be asserted without a database.
//
// Usage:
//
//	mem := mocks.NewMemory()
//	svc, _ := directory.NewRegionService(mem.UnitOfWork(), nil)
//	mem.Fail("Regions.Create", errors.New("boom"))
//
// MockJWTService and MockPasswordHasher replace the auth services where a
// test needs to force a specific outcome.
package mocks
