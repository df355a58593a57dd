package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/splitspend/splitspend/internal/errs"
	"github.com/splitspend/splitspend/internal/models"
	"github.com/splitspend/splitspend/internal/storage"
)

// GroupService orchestrates group creation and member addition as atomic,
// consistency-preserving operations against the store and the group
// aggregate.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{
		store:  store,
		logger: slog.Default(),
	}
}

// CreateGroup creates a group with the creator admitted as its ADMIN. The
// group row and the admin membership are persisted in one transaction, so a
// group never exists without at least one membership.
func (s *GroupService) CreateGroup(ctx context.Context, name string, creatorID int64) (*models.Group, error) {
	s.logger.Info("Creating group", "name", name, "creator_id", creatorID)

	creator, err := s.store.GetUserByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, errs.NotFoundf("User with ID %d not found", creatorID)
	}

	group := models.NewGroup(name, creatorID)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info("Group created", "group_id", group.ID, "admin_id", creatorID)
	return group, nil
}

// ListGroups returns all groups with their memberships.
// Temporary: will filter by authenticated identity once sessions exist.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	s.logger.Debug("Listing groups")
	return s.store.ListGroups(ctx)
}

// AddMember adds the user to the group at role MEMBER and returns the group
// with its full membership list. The aggregate's duplicate scan is an early
// exit; the store's unique constraint on (group, user) catches concurrent
// additions, and both paths report the same conflict.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID int64) (*models.Group, error) {
	s.logger.Info("Adding member", "group_id", groupID, "user_id", userID)

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errs.NotFoundf("User with ID %d not found", userID)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, errs.NotFoundf("Group with ID %d not found", groupID)
	}

	membership, err := group.AddMember(userID, models.RoleMember)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateMember) {
			s.logger.Warn("Duplicate member", "group_id", groupID, "user_id", userID)
			return nil, errs.Conflictf("%s is already a member of this group", user.Name)
		}
		return nil, err
	}

	if err := s.store.AddMembership(ctx, membership); err != nil {
		var conflict *errs.ConflictError
		if errors.As(err, &conflict) {
			// Lost a race with a concurrent writer; report it exactly as
			// the in-memory check would have.
			return nil, errs.Conflictf("%s is already a member of this group", user.Name)
		}
		return nil, err
	}

	s.logger.Info("Member added", "group_id", groupID, "user_id", userID)
	return group, nil
}
