package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kobenguyent/note-hub/internal/model"
)

// Postgres error code for unique constraint violations.
const uniqueViolationCode = "23505"

const userColumns = `id, username, COALESCE(email, ''), password_hash, COALESCE(totp_secret, ''), created_at, last_login`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(ctx, r.pool,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByIdentity resolves a login identity that may be either a username or
// an email address in a single lookup.
func (r *UserRepository) FindByIdentity(ctx context.Context, identity string) (model.User, error) {
	identity = strings.TrimSpace(identity)
	return r.scanOne(ctx, r.pool,
		`SELECT `+userColumns+` FROM users
		 WHERE username = $1 OR (email IS NOT NULL AND lower(email) = lower($1))`, identity)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		strings.TrimSpace(username)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	var email any
	if u.Email != "" {
		email = u.Email
	}
	var secret any
	if u.TOTPSecret != "" {
		secret = u.TOTPSecret
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, totp_secret, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, email, u.PasswordHash, secret, u.CreatedAt)
	if err != nil {
		// Both the username constraint and the partial email index land
		// here, including inserts that lost a race with a concurrent
		// registration.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// UpdateTOTPSecret stores a confirmed secret; an empty secret disables the
// second factor.
func (r *UserRepository) UpdateTOTPSecret(ctx context.Context, userID string, secret string) error {
	var value any
	if secret != "" {
		value = secret
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET totp_secret = $2 WHERE id = $1`, userID, value)
	if err != nil {
		return fmt.Errorf("update totp secret: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login = $2 WHERE id = $1`, userID, at)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) scanOne(ctx context.Context, db DBTX, sql string, args ...any) (model.User, error) {
	var u model.User
	err := db.QueryRow(ctx, sql, args...).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.TOTPSecret, &u.CreatedAt, &u.LastLogin)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
