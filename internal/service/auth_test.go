package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-session-service/internal/model"
	"github.com/iliyamo/user-session-service/internal/repository"
)

// memUsers is an in-memory UserStore keyed by normalized username.
type memUsers struct {
	mu     sync.Mutex
	nextID uint64
	byName map[string]model.User
}

func newMemUsers() *memUsers { return &memUsers{byName: map[string]model.User{}} }

func (m *memUsers) Create(_ context.Context, u model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[u.Username]; ok {
		return model.User{}, repository.ErrUsernameExists
	}
	m.nextID++
	u.ID = m.nextID
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m.byName[u.Username] = u
	return u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byName[username]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

// memSessions mirrors the transactional semantics of the SQL store:
// Create deactivates the user's active sessions before inserting.
type memSessions struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[string]*model.Session
}

func newMemSessions() *memSessions { return &memSessions{rows: map[string]*model.Session{}} }

func (m *memSessions) Create(_ context.Context, s model.Session) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.UserID == s.UserID && row.IsActive {
			row.IsActive = false
		}
	}
	m.nextID++
	s.ID = m.nextID
	s.CreatedAt = time.Now().UTC()
	s.IsActive = true
	m.rows[s.SessionID] = &s
	return s, nil
}

func (m *memSessions) GetActive(_ context.Context, sessionID string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[sessionID]; ok && row.IsActive {
		return *row, nil
	}
	return model.Session{}, repository.ErrNotFound
}

func (m *memSessions) Get(_ context.Context, sessionID string) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[sessionID]; ok {
		return *row, nil
	}
	return model.Session{}, repository.ErrNotFound
}

func (m *memSessions) Deactivate(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[sessionID]; ok {
		row.IsActive = false
	}
	return nil
}

func newTestAuth() (*Auth, *memUsers, *memSessions) {
	users := newMemUsers()
	sessions := newMemSessions()
	return NewAuth(users, sessions, 4, 24*time.Hour), users, sessions
}

func register(t *testing.T, a *Auth, username, password string) model.User {
	t.Helper()
	u, err := a.Register(context.Background(), RegisterInput{
		Firstname: "John",
		Lastname:  "Doe",
		Username:  username,
		Password:  password,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterNormalizesUsername(t *testing.T) {
	a, _, _ := newTestAuth()
	u := register(t, a, "  JohnDoe ", "securepass")
	assert.Equal(t, "johndoe", u.Username)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "securepass", u.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	a, _, _ := newTestAuth()
	register(t, a, "johndoe", "securepass")

	_, err := a.Register(context.Background(), RegisterInput{
		Firstname: "Jane",
		Lastname:  "Doe",
		Username:  "JOHNDOE", // different case, same normalized name
		Password:  "otherpass",
	})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestAuthenticate(t *testing.T) {
	a, _, _ := newTestAuth()
	register(t, a, "johndoe", "securepass")

	u, err := a.Authenticate(context.Background(), "JOHNDOE", "securepass")
	require.NoError(t, err)
	assert.Equal(t, "johndoe", u.Username)

	_, wrongPass := a.Authenticate(context.Background(), "johndoe", "wrongpass")
	_, noUser := a.Authenticate(context.Background(), "nobody", "securepass")
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	// both failure modes surface the same error value
	assert.Equal(t, wrongPass, noUser)
}

func TestCreateSessionSingleActivePolicy(t *testing.T) {
	a, _, _ := newTestAuth()
	u := register(t, a, "johndoe", "securepass")
	ctx := context.Background()

	first, err := a.CreateSession(ctx, u.ID)
	require.NoError(t, err)
	second, err := a.CreateSession(ctx, u.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.SessionID, second.SessionID)

	_, _, err = a.ValidateSession(ctx, first.SessionID)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	s, owner, err := a.ValidateSession(ctx, second.SessionID)
	require.NoError(t, err)
	assert.Equal(t, second.SessionID, s.SessionID)
	assert.Equal(t, u.ID, owner.ID)
}

func TestValidateSessionUnknownToken(t *testing.T) {
	a, _, _ := newTestAuth()
	_, _, err := a.ValidateSession(context.Background(), "invalid-session-id")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateSessionLazyExpiry(t *testing.T) {
	a, _, sessions := newTestAuth()
	u := register(t, a, "johndoe", "securepass")
	ctx := context.Background()

	s, err := a.CreateSession(ctx, u.ID)
	require.NoError(t, err)

	// back-date the expiry so the next lookup sees a stale session
	past := time.Now().UTC().Add(-time.Minute)
	sessions.rows[s.SessionID].ExpiresAt = &past

	_, _, err = a.ValidateSession(ctx, s.SessionID)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	row, err := sessions.Get(ctx, s.SessionID)
	require.NoError(t, err)
	assert.False(t, row.IsActive, "expired session must be flagged inactive")

	// the row still exists, so invalidation after lazy expiry succeeds
	_, err = a.InvalidateSession(ctx, s.SessionID)
	assert.NoError(t, err)
}

func TestInvalidateSession(t *testing.T) {
	a, _, sessions := newTestAuth()
	u := register(t, a, "johndoe", "securepass")
	ctx := context.Background()

	s, err := a.CreateSession(ctx, u.ID)
	require.NoError(t, err)

	gone, err := a.InvalidateSession(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, gone.UserID)
	assert.False(t, gone.IsActive)

	row, err := sessions.Get(ctx, s.SessionID)
	require.NoError(t, err)
	assert.False(t, row.IsActive)

	// deactivating twice still finds the row
	_, err = a.InvalidateSession(ctx, s.SessionID)
	assert.NoError(t, err)

	_, err = a.InvalidateSession(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "johndoe", NormalizeUsername(" JohnDoe\t"))
	assert.Equal(t, "", NormalizeUsername("   "))
}
