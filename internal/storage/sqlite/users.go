package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitspend/splitspend/internal/errs"
	"github.com/splitspend/splitspend/internal/models"
)

// CreateUser inserts a new user into the database. The UNIQUE constraints on
// email and phone_number are the authoritative guard against concurrent
// signups racing past the service's existence checks; violations are
// reported as the same ConflictError the pre-checks produce.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().Truncate(time.Second)
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, phone_number, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		now.Unix(),
		now.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return errs.Conflictf("User with email %s already exists", user.Email)
		}
		if isUniqueViolation(err, "users.phone_number") {
			return errs.Conflictf("User with phone number %s already exists", user.PhoneNumber)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetUserByID retrieves a user by their ID. Returns (nil, nil) if no user
// has the id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by their email address. Returns (nil, nil)
// if no user has the email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, name, email, phone_number, password_hash, created_at, updated_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PhoneNumber,
		&user.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)
	return user, nil
}

// EmailExists reports whether a user with the email is registered.
func (s *SQLiteStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.userExists(ctx, "email = ?", email)
}

// PhoneNumberExists reports whether a user with the phone number is registered.
func (s *SQLiteStore) PhoneNumberExists(ctx context.Context, phoneNumber string) (bool, error) {
	return s.userExists(ctx, "phone_number = ?", phoneNumber)
}

func (s *SQLiteStore) userExists(ctx context.Context, where string, arg any) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM users WHERE " + where + ")"
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}
