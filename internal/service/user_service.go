// Package service implements the application's use cases on top of the
// storage port: signup and login, group creation and member addition.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitspend/splitspend/internal/auth"
	"github.com/splitspend/splitspend/internal/errs"
	"github.com/splitspend/splitspend/internal/models"
	"github.com/splitspend/splitspend/internal/storage"
)

// UserService enforces global user-identity uniqueness and verifies
// credentials.
type UserService struct {
	store  storage.Store
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a UserService with the given storage backend and
// password hasher.
func NewUserService(store storage.Store, hasher auth.PasswordHasher) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
		logger: slog.Default(),
	}
}

// CreateUser registers a new user. The email check runs before the phone
// check, so a signup reusing both reports the email conflict. The password
// is hashed before it is persisted; the plaintext is never stored or logged.
//
// The existence checks are early exits: a concurrent signup racing past them
// is caught by the store's unique constraints and reported as the same
// conflict.
func (s *UserService) CreateUser(ctx context.Context, name, email, phoneNumber, password string) (*models.User, error) {
	s.logger.Info("Creating user", "email", email)

	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, errs.Conflictf("User with email %s already exists", email)
	}

	exists, err = s.store.PhoneNumberExists(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone number: %w", err)
	}
	if exists {
		return nil, errs.Conflictf("User with phone number %s already exists", phoneNumber)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(name, email, phoneNumber, hash)
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// GetUser retrieves a user by id, failing with a NotFoundError if absent.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errs.NotFoundf("User with ID %d not found", id)
	}
	return user, nil
}

// Login verifies the email and password, returning the user if valid. A
// missing user and a wrong password yield the identical error so responses
// never reveal which emails are registered.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		s.logger.Warn("Login failed", "email", email)
		return nil, errs.ErrInvalidCredentials
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		s.logger.Warn("Login failed", "email", email)
		return nil, errs.ErrInvalidCredentials
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return user, nil
}
