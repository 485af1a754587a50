// Package auth issues and verifies the HS256 access tokens that carry a
// user's identity and permissions, and hashes passwords with bcrypt.
package auth
