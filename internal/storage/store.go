// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitspend/splitspend/internal/models"
)

// Store defines the interface for user and group persistence. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Uniqueness is enforced here authoritatively: implementations must reject
// duplicate emails, phone numbers, and (group, user) membership pairs at
// commit time regardless of any pre-checks the services performed, and
// report the violation as a *errs.ConflictError.
type Store interface {
	// CreateUser persists a new user. The user's ID and timestamps are
	// populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by id. Returns (nil, nil) if absent.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// EmailExists reports whether a user with the email is registered.
	EmailExists(ctx context.Context, email string) (bool, error)

	// PhoneNumberExists reports whether a user with the phone number is
	// registered.
	PhoneNumberExists(ctx context.Context, phoneNumber string) (bool, error)

	// CreateGroup persists a group together with its current membership
	// list in a single transaction: both the group row and every
	// membership row succeed, or none do. IDs and timestamps are populated
	// by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its memberships ordered by
	// membership id. Returns (nil, nil) if absent.
	GetGroup(ctx context.Context, id int64) (*models.Group, error)

	// ListGroups retrieves all groups with their memberships.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddMembership persists one new membership for an existing group.
	// The membership's ID and timestamps are populated by the store.
	AddMembership(ctx context.Context, m *models.Membership) error

	// Close releases any resources held by the store.
	Close() error
}
