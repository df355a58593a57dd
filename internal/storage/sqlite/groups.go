package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitspend/splitspend/internal/errs"
	"github.com/splitspend/splitspend/internal/models"
)

// CreateGroup persists a group together with its current membership list in
// a single transaction. A group row never exists without its memberships:
// either every insert succeeds or the whole write rolls back.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	now := time.Now().Truncate(time.Second)
	group.CreatedAt = now
	group.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO groups (name, created_by, created_at, updated_at) VALUES (?, ?, ?, ?)",
		group.Name, group.CreatedByID, now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	groupID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get group id: %w", err)
	}
	group.ID = groupID

	for i := range group.Members {
		m := &group.Members[i]
		m.GroupID = groupID
		m.CreatedAt = now
		m.UpdatedAt = now

		res, err := tx.ExecContext(ctx,
			"INSERT INTO memberships (group_id, user_id, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			m.GroupID, m.UserID, string(m.Role), now.Unix(), now.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert membership: %w", err)
		}
		if m.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get membership id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including its memberships ordered by
// membership id. Returns (nil, nil) if no group has the id.
func (s *SQLiteStore) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	group := &models.Group{}
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_by, created_at, updated_at FROM groups WHERE id = ?",
		id,
	).Scan(&group.ID, &group.Name, &group.CreatedByID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.CreatedAt = time.Unix(createdAt, 0)
	group.UpdatedAt = time.Unix(updatedAt, 0)

	members, err := s.groupMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// ListGroups retrieves all groups with their memberships.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_by, created_at, updated_at FROM groups ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var createdAt, updatedAt int64
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedByID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.CreatedAt = time.Unix(createdAt, 0)
		group.UpdatedAt = time.Unix(updatedAt, 0)
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		members, err := s.groupMembers(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}

	return groups, nil
}

// AddMembership persists one new membership for an existing group. The
// UNIQUE (group_id, user_id) constraint is the authoritative guard against
// two concurrent writers admitting the same user; a violation is reported
// as a ConflictError.
func (s *SQLiteStore) AddMembership(ctx context.Context, m *models.Membership) error {
	now := time.Now().Truncate(time.Second)
	m.CreatedAt = now
	m.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO memberships (group_id, user_id, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		m.GroupID, m.UserID, string(m.Role), now.Unix(), now.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err, "memberships.group_id") {
			return errs.Conflictf("user %d is already a member of group %d", m.UserID, m.GroupID)
		}
		return fmt.Errorf("failed to insert membership: %w", err)
	}

	if m.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get membership id: %w", err)
	}

	return nil
}

func (s *SQLiteStore) groupMembers(ctx context.Context, groupID int64) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, user_id, role, created_at, updated_at
		FROM memberships
		WHERE group_id = ?
		ORDER BY id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var m models.Membership
		var role string
		var createdAt, updatedAt int64
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &role, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		m.Role = models.Role(role)
		m.CreatedAt = time.Unix(createdAt, 0)
		m.UpdatedAt = time.Unix(updatedAt, 0)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}

	return members, nil
}
