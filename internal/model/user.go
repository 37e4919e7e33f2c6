package model

import "time"

// User represents a row in the `users` table. The password hash is kept
// internal to the repository/service layers; handlers define separate
// response types so it is never serialized outward.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Firstname    – given name, up to 100 characters.
//  Lastname     – family name, up to 100 characters.
//  Title        – optional honorific, up to 50 characters (nil when absent).
//  Username     – unique username, stored trimmed and lowercased.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Firstname    string    // users.firstname
	Lastname     string    // users.lastname
	Title        *string   // users.title (nullable)
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
