package models

import (
	"errors"
	"time"
)

// Role is a member's role within a group.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// ErrDuplicateMember is returned when a user already appears in a group's
// membership list.
var ErrDuplicateMember = errors.New("user is already a member of this group")

// Group represents a group where users share expenses.
//
// The group and its memberships form one consistency boundary: memberships
// are only created through NewGroup and AddMember, and the store persists a
// group together with its membership deltas in a single transaction. A group
// always has at least one ADMIN membership (the creator, admitted at
// construction).
type Group struct {
	// ID is assigned by the store on creation.
	ID int64

	// Name is the display name of the group.
	Name string

	// CreatedByID is the id of the user who created the group. Kept as a
	// plain int64, not a User reference, so the group and user lifecycles
	// stay decoupled.
	CreatedByID int64

	// Members is the ordered membership list. Mutated in place by AddMember.
	Members []Membership

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership binds one user to one group with a role.
type Membership struct {
	// ID is assigned by the store on creation.
	ID int64

	GroupID int64
	UserID  int64
	Role    Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGroup constructs a group with a single ADMIN membership for the
// creator. The creator's existence is the caller's responsibility.
func NewGroup(name string, creatorID int64) *Group {
	g := &Group{
		Name:        name,
		CreatedByID: creatorID,
	}
	g.Members = append(g.Members, Membership{
		UserID: creatorID,
		Role:   RoleAdmin,
	})
	return g
}

// IsMember reports whether the user already appears in the membership list.
func (g *Group) IsMember(userID int64) bool {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return true
		}
	}
	return false
}

// AddMember appends a membership for the user with the given role and
// returns it. Fails with ErrDuplicateMember if the user is already a member.
// The membership list is mutated in place; the pre-check here is an early
// exit only, the store's unique constraint on (group, user) is the
// authoritative guard.
func (g *Group) AddMember(userID int64, role Role) (*Membership, error) {
	if g.IsMember(userID) {
		return nil, ErrDuplicateMember
	}
	g.Members = append(g.Members, Membership{
		GroupID: g.ID,
		UserID:  userID,
		Role:    role,
	})
	return &g.Members[len(g.Members)-1], nil
}
