package utils

import "github.com/google/uuid"

// NewSessionID returns a fresh random session token. Tokens are version 4
// UUIDs rendered in their canonical 36-character form; the sessions table
// enforces uniqueness, and the 122 bits of randomness make collisions a
// non-concern in practice.
func NewSessionID() string {
	return uuid.NewString()
}
