package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/user-session-service/internal/model"
)

// UserRepo accesses the 'users' table. Usernames are expected to arrive
// already normalized (trimmed, lowercased) from the service layer.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns it with ID and timestamps filled in.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (firstname, lastname, title, username, password_hash, created_at, updated_at) VALUES (?,?,?,?,?,?,?)",
		u.Firstname, u.Lastname, nullable(u.Title), u.Username, u.PasswordHash, now, now)
	if err != nil {
		// 1062 = MySQL duplicate entry, here only possible on the username index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u.ID = uint64(id)
	u.CreatedAt = now
	u.UpdatedAt = now
	return u, nil
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx,
		"SELECT id,firstname,lastname,title,username,password_hash,created_at,updated_at FROM users WHERE username=? LIMIT 1",
		username)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx,
		"SELECT id,firstname,lastname,title,username,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var (
		u     model.User
		title sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Firstname, &u.Lastname, &title, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if title.Valid {
		u.Title = &title.String
	}
	return u, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
