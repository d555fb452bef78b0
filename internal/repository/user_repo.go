package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smartbin"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of UserRepo at compile time.
var _ UserRepo = (*UserSQLite)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, email, phone_number, role, password_hash, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, email, phone_number, role, password_hash, is_active, created_at
		FROM users WHERE username = ?`
	selectUserByEmailSQL = `SELECT id, username, email, phone_number, role, password_hash, is_active, created_at
		FROM users WHERE email = ?`
	countUsersSQL = `SELECT COUNT(*) FROM users`
)

// Create inserts a new user and returns its ID.
func (r *UserSQLite) Create(ctx context.Context, u smartbin.User) (int, error) {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Username,
		u.Email,
		u.PhoneNumber,
		u.Role,
		u.PasswordHash,
		u.IsActive,
		createdAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}
	return int(lastID), nil
}

func (r *UserSQLite) getOne(ctx context.Context, query, arg string) (*smartbin.User, error) {
	var u smartbin.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PhoneNumber,
		&u.Role,
		&u.PasswordHash,
		&u.IsActive,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", arg, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*smartbin.User, error) {
	return r.getOne(ctx, selectUserByUsernameSQL, username)
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*smartbin.User, error) {
	return r.getOne(ctx, selectUserByEmailSQL, email)
}

// Count reports how many users exist.
func (r *UserSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
