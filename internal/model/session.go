package model

import "time"

// Session models a row in the `sessions` table. Each session belongs to a
// user and is identified by an opaque random token handed to the client in
// the `sessionid` header. Sessions are never deleted; logout and lazy expiry
// both flip IsActive to false.
//
// Fields:
//  ID        – primary key identifier.
//  SessionID – 36-character UUID token, unique.
//  UserID    – owner of the session.
//  CreatedAt – timestamp of creation.
//  ExpiresAt – expiration timestamp (nil means no expiry).
//  IsActive  – whether the session is still valid.
type Session struct {
	ID        uint64     // sessions.id
	SessionID string     // sessions.session_id
	UserID    uint64     // sessions.user_id
	CreatedAt time.Time  // sessions.created_at
	ExpiresAt *time.Time // sessions.expires_at (nullable)
	IsActive  bool       // sessions.is_active
}

// Expired reports whether the session's expiry, if set, is before now.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
