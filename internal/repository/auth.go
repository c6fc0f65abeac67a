// Package repository provides PostgreSQL persistence for accounts, profiles
// and issued refresh tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/atinyakov/DevHub/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when an insert hits the username unique index.
	ErrUsernameTaken = errors.New("username already taken")
)

const uniqueViolation = "23505"

// PostgresAuthRepository stores accounts and refresh tokens.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a repository over db.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// UsernameExists reports whether an account with username exists.
func (r *PostgresAuthRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts the account and its empty profile in one transaction and
// returns the account with ID and CreatedAt filled in.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, acc models.Account) (*models.Account, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO users (username, email, first_name, last_name, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		acc.User.Username, acc.User.Email, acc.User.FirstName, acc.User.LastName, acc.PasswordHash,
	).Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO profiles (user_id) VALUES ($1)`, acc.ID); err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &acc, nil
}

// GetAccountByUsername loads the account including its password hash.
func (r *PostgresAuthRepository) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var acc models.Account
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, email, first_name, last_name, password_hash, created_at
		   FROM users WHERE username = $1`,
		username,
	).Scan(&acc.ID, &acc.User.Username, &acc.User.Email, &acc.User.FirstName,
		&acc.User.LastName, &acc.PasswordHash, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// SaveRefreshToken records an issued refresh token by its jti.
func (r *PostgresAuthRepository) SaveRefreshToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (jti, user_id, expires_at) VALUES ($1, $2, $3)`,
		jti, userID, expiresAt.UTC(),
	)
	return err
}

// RefreshTokenValid reports whether jti was issued to userID and has not
// expired at now.
func (r *PostgresAuthRepository) RefreshTokenValid(ctx context.Context, jti string, userID int64, now time.Time) (bool, error) {
	var ok bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE jti = $1 AND user_id = $2 AND expires_at > $3)`,
		jti, userID, now.UTC(),
	).Scan(&ok)
	return ok, err
}
