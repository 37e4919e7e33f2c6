// Package queue publishes and consumes auth audit events over the message
// broker.
package queue

import "time"

// Event types carried on the auth.events queue.
const (
	EventUserRegistered = "user.registered"
	EventUserLogin      = "user.login"
	EventUserLogout     = "user.logout"
)

// AuthEvent is published whenever an account is created or a session starts
// or ends. It carries enough information for downstream consumers to build
// an audit trail without querying the primary database.
type AuthEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	SessionID  string `json:"session_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewAuthEvent stamps an event with the current UTC time in RFC 3339 form.
func NewAuthEvent(eventType string, userID uint64, username, sessionID string) AuthEvent {
	return AuthEvent{
		Type:       eventType,
		UserID:     userID,
		Username:   username,
		SessionID:  sessionID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
