// Package service implements the authentication flows on top of the user and
// session stores: registration, credential checks, and the session
// lifecycle (issue, validate, invalidate).
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/user-session-service/internal/model"
	"github.com/iliyamo/user-session-service/internal/repository"
	"github.com/iliyamo/user-session-service/internal/utils"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// SessionStore is the slice of the session repository the auth service needs.
// Create must atomically deactivate the user's active sessions before
// inserting the new row.
type SessionStore interface {
	Create(ctx context.Context, s model.Session) (model.Session, error)
	GetActive(ctx context.Context, sessionID string) (model.Session, error)
	Get(ctx context.Context, sessionID string) (model.Session, error)
	Deactivate(ctx context.Context, sessionID string) error
}

var (
	// ErrDuplicateUsername is returned by Register when the normalized
	// username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// username and for a wrong password alike, so callers cannot tell
	// which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionInvalid is returned by ValidateSession for unknown,
	// inactive and expired tokens alike.
	ErrSessionInvalid = errors.New("invalid session")
	// ErrSessionNotFound is returned by InvalidateSession when no row
	// matches the token.
	ErrSessionNotFound = errors.New("session not found")
)

// Auth composes the stores and the password hasher.
type Auth struct {
	users      UserStore
	sessions   SessionStore
	bcryptCost int
	sessionTTL time.Duration
}

func NewAuth(users UserStore, sessions SessionStore, bcryptCost int, sessionTTL time.Duration) *Auth {
	return &Auth{users: users, sessions: sessions, bcryptCost: bcryptCost, sessionTTL: sessionTTL}
}

// RegisterInput carries an already-validated registration payload.
type RegisterInput struct {
	Firstname string
	Lastname  string
	Title     *string
	Username  string
	Password  string
}

// NormalizeUsername trims and lowercases a username. The normalized form is
// what gets stored and what uniqueness and lookups key on.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register hashes the password and persists a new user. The unique index on
// the username column is the authority on duplicates, so two concurrent
// registrations of the same name cannot both succeed.
func (a *Auth) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	hash, err := utils.HashPassword(in.Password, a.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := a.users.Create(ctx, model.User{
		Firstname:    strings.TrimSpace(in.Firstname),
		Lastname:     strings.TrimSpace(in.Lastname),
		Title:        in.Title,
		Username:     NormalizeUsername(in.Username),
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrUsernameExists) {
		return model.User{}, ErrDuplicateUsername
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Authenticate looks up the user by normalized username and checks the
// password. Unknown username and wrong password produce the same error.
func (a *Auth) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := a.users.GetByUsername(ctx, NormalizeUsername(username))
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// CreateSession issues a fresh session for the user. Any previously active
// session is deactivated by the store in the same transaction, keeping at
// most one active session per user.
func (a *Auth) CreateSession(ctx context.Context, userID uint64) (model.Session, error) {
	expires := time.Now().UTC().Add(a.sessionTTL)
	return a.sessions.Create(ctx, model.Session{
		SessionID: utils.NewSessionID(),
		UserID:    userID,
		ExpiresAt: &expires,
	})
}

// ValidateSession resolves an active session token to its session and owning
// user. Expiry is lazy: a stale row found here is flipped inactive and
// reported as invalid, there is no background sweep.
func (a *Auth) ValidateSession(ctx context.Context, sessionID string) (model.Session, model.User, error) {
	s, err := a.sessions.GetActive(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Session{}, model.User{}, ErrSessionInvalid
	}
	if err != nil {
		return model.Session{}, model.User{}, err
	}
	if s.Expired(time.Now().UTC()) {
		if err := a.sessions.Deactivate(ctx, s.SessionID); err != nil {
			return model.Session{}, model.User{}, err
		}
		return model.Session{}, model.User{}, ErrSessionInvalid
	}
	u, err := a.users.GetByID(ctx, s.UserID)
	if err != nil {
		// sessions reference existing users, so a miss here is a server fault
		return model.Session{}, model.User{}, fmt.Errorf("load session user %d: %w", s.UserID, err)
	}
	return s, u, nil
}

// InvalidateSession deactivates a session by token and returns the affected
// row. It succeeds whenever the row exists, even if the session was already
// inactive (for example after lazy expiry), and reports ErrSessionNotFound
// otherwise.
func (a *Auth) InvalidateSession(ctx context.Context, sessionID string) (model.Session, error) {
	s, err := a.sessions.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	if err := a.sessions.Deactivate(ctx, sessionID); err != nil {
		return model.Session{}, err
	}
	s.IsActive = false
	return s, nil
}
