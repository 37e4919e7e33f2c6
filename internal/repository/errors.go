// Package repository provides the accessors for the `users` and `sessions`
// tables. Sentinel errors defined here let the service layer distinguish
// failure cases without inspecting driver errors; handlers translate them
// into HTTP status codes.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. It replaces
// sql.ErrNoRows at the repository boundary so alternative store
// implementations do not need to import database/sql.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when an insert collides with the unique
// username index. Handlers translate this into an HTTP 409 response.
var ErrUsernameExists = errors.New("username already exists")
