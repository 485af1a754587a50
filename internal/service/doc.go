// Package service holds the account use cases: registration and login.
//
// Services receive their dependencies through constructors and run every
// multi-step write inside a store.UnitOfWork transaction. Errors returned to
// callers are *domain.Error values whose Kind decides the HTTP status; store
// and infrastructure failures are logged and replaced by a generic
// persistence error.
//
// The directory use cases live in the directory subpackage and the token and
// password primitives in the auth subpackage.
package service
