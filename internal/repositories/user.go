package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/otp-auth/internal/logger"
	"github.com/sbilibin2017/otp-auth/internal/models"
)

// ErrUserNotFound is returned by write operations targeting a missing row.
var ErrUserNotFound = errors.New("user not found")

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with the given email, or nil if absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, email, first_name, last_name, password_hash, otp, verified, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	// Log with query in single line
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given id, or nil if absent.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	const query = `
		SELECT user_id, email, first_name, last_name, password_hash, otp, verified, created_at, updated_at
		FROM users
		WHERE user_id = $1
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// UpsertPending creates an unverified user or, if the email is taken,
// overwrites name, password hash and OTP in place. The verified flag is
// never touched here, so a repeat signup before verification refreshes
// the pending challenge without duplicating the row. A single statement
// keeps concurrent signups for the same email last-write-wins per row.
func (r *UserWriteRepository) UpsertPending(
	ctx context.Context,
	email, firstName, lastName, passwordHash, otp string,
) (uuid.UUID, error) {
	const query = `
		INSERT INTO users (email, first_name, last_name, password_hash, otp, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    password_hash = EXCLUDED.password_hash,
		    otp = EXCLUDED.otp,
		    updated_at = NOW()
		RETURNING user_id
	`
	args := []any{email, firstName, lastName, passwordHash, otp}

	var userID uuid.UUID
	err := r.db.GetContext(ctx, &userID, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email, firstName, lastName},
		"result", userID,
		"error", err,
	)

	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// MarkVerified flips the user to verified and clears the outstanding OTP.
func (r *UserWriteRepository) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	const query = `
		UPDATE users
		SET verified = TRUE,
		    otp = NULL,
		    updated_at = NOW()
		WHERE user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
