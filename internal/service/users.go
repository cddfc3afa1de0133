package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/quizhub-server/internal/apperror"
	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Users implements the admin user management operations.
type Users struct {
	store  model.UserStore
	logger *logger.Logger
}

func NewUsers(store model.UserStore, logger *logger.Logger) *Users {
	return &Users{store: store, logger: logger}
}

// List returns a page of users matching filter, newest first.
func (s *Users) List(ctx context.Context, filter model.UserFilter) (model.UserPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	users, total, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("Users service: failed to list users", "error", err.Error())
		return model.UserPage{}, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}

	return model.UserPage{Users: users, Page: filter.Page, Limit: filter.Limit, Total: total}, nil
}

// ToggleBlock flips the blocked flag of a user and returns the updated user
// with a message describing the new state.
func (s *Users) ToggleBlock(ctx context.Context, id uuid.UUID) (model.User, string, error) {
	user, err := s.store.ToggleBlocked(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, "", apperror.NewErrUserNotFound()
		}
		s.logger.Error("Users service: failed to toggle block", "user_id", id.String(), "error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to toggle block: %w", err)
	}

	s.logger.Info("Users service: block toggled", "user_id", id.String(), "blocked", user.IsBlocked)
	if user.IsBlocked {
		return user, "User blocked", nil
	}
	return user, "User unblocked", nil
}

// BulkSetBlocked sets the blocked flag on every listed user and reports how
// many users changed.
func (s *Users) BulkSetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int64, string, error) {
	if len(ids) == 0 {
		return 0, "", apperror.BadRequest("No user ids provided")
	}

	n, err := s.store.SetBlocked(ctx, ids, blocked)
	if err != nil {
		s.logger.Error("Users service: failed to bulk block", "count", len(ids), "error", err.Error())
		return 0, "", fmt.Errorf("failed to set blocked: %w", err)
	}

	verb := "unblocked"
	if blocked {
		verb = "blocked"
	}
	return n, fmt.Sprintf("%d users %s", n, verb), nil
}

// IsBlocked reports whether the user is blocked. Unknown users count as
// blocked so a token for a deleted account is refused.
func (s *Users) IsBlocked(ctx context.Context, id uuid.UUID) (bool, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return user.IsBlocked, nil
}
