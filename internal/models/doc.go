// Package models defines the core domain models for SplitSpend.
//
// # Models
//
//   - User: registered account with globally unique email and phone number
//   - Group: a container for shared expenses, owning its memberships
//   - Membership: the join record binding one User to one Group with a role
//
// # Design Principles
//
//  1. A Group together with its Memberships is one consistency boundary:
//     memberships are only created through the group's own operations, and
//     persisting a group writes the group and its membership deltas in a
//     single transaction.
//  2. Group.CreatedByID is a plain int64, not a User reference. This keeps
//     the group and user lifecycles decoupled and avoids a circular
//     dependency between the two domains.
//  3. User is a leaf entity. It owns nothing; memberships reference it by id
//     and never cascade from it.
package models
