package models

import "time"

// User represents a registered user account.
//
// Email and phone number are unique so there is one account per person.
// PasswordHash holds the bcrypt hash; the plaintext password never reaches
// this struct. The user is referenced by memberships but owns nothing, so
// nothing cascades from it.
type User struct {
	// ID is assigned by the store on creation.
	ID int64

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (globally unique).
	Email string

	// PhoneNumber is the user's phone number (globally unique).
	PhoneNumber string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a user with the required identity fields. Timestamps and
// the ID are populated by the store on insert.
func NewUser(name, email, phoneNumber, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PhoneNumber:  phoneNumber,
		PasswordHash: passwordHash,
	}
}
