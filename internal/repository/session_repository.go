package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/user-session-service/internal/model"
)

// SessionRepo accesses the 'sessions' table. Rows are never deleted; logout
// and lazy expiry both clear the is_active flag.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create deactivates every active session of the owning user and inserts the
// new one, inside a single transaction. Two concurrent logins for the same
// user would otherwise both see zero active sessions and each leave one
// behind, breaking the single-active-session policy.
func (r *SessionRepo) Create(ctx context.Context, s model.Session) (model.Session, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Session{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE sessions SET is_active=0 WHERE user_id=? AND is_active=1",
		s.UserID); err != nil {
		return model.Session{}, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	res, err := tx.ExecContext(ctx,
		"INSERT INTO sessions (session_id, user_id, created_at, expires_at, is_active) VALUES (?,?,?,?,1)",
		s.SessionID, s.UserID, now, nullableTime(s.ExpiresAt))
	if err != nil {
		return model.Session{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Session{}, err
	}

	s.ID = uint64(id)
	s.CreatedAt = now
	s.IsActive = true
	return s, nil
}

// GetActive fetches a session by token, restricted to active rows.
func (r *SessionRepo) GetActive(ctx context.Context, sessionID string) (model.Session, error) {
	return r.getOne(ctx,
		"SELECT id,session_id,user_id,created_at,expires_at,is_active FROM sessions WHERE session_id=? AND is_active=1 LIMIT 1",
		sessionID)
}

// Get fetches a session by token regardless of the active flag.
func (r *SessionRepo) Get(ctx context.Context, sessionID string) (model.Session, error) {
	return r.getOne(ctx,
		"SELECT id,session_id,user_id,created_at,expires_at,is_active FROM sessions WHERE session_id=? LIMIT 1",
		sessionID)
}

// Deactivate clears the active flag on a session row.
func (r *SessionRepo) Deactivate(ctx context.Context, sessionID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET is_active=0 WHERE session_id=?",
		sessionID)
	return err
}

func (r *SessionRepo) getOne(ctx context.Context, query string, arg any) (model.Session, error) {
	var (
		s       model.Session
		expires sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&s.ID, &s.SessionID, &s.UserID, &s.CreatedAt, &expires, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	if expires.Valid {
		s.ExpiresAt = &expires.Time
	}
	return s, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
