package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/quizhub-server/internal/apperror"
	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
)

// UsersService defines the admin user management operations.
type UsersService interface {
	List(ctx context.Context, filter model.UserFilter) (model.UserPage, error)
	ToggleBlock(ctx context.Context, id uuid.UUID) (model.User, string, error)
	BulkSetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int64, string, error)
}

// Users handles the /api/admin/users endpoints.
type Users struct {
	usersService UsersService
	validator    Validator
	logger       *logger.Logger
}

// NewUsers creates a new Users handler.
func NewUsers(usersService UsersService, validator Validator, logger *logger.Logger) *Users {
	return &Users{usersService: usersService, validator: validator, logger: logger}
}

// List returns a filtered page of users.
func (h *Users) List(c *fiber.Ctx) error {
	var q listUsersQuery
	if err := c.QueryParser(&q); err != nil {
		return apperror.BadRequest("Invalid query parameters").Wrap(err)
	}
	if err := h.validator.Struct(&q); err != nil {
		return err
	}

	page, err := h.usersService.List(c.UserContext(), model.UserFilter{
		Search: q.Search,
		Role:   model.Role(q.Role),
		Status: model.UserStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}

	users := make([]UserResponse, 0, len(page.Users))
	for _, u := range page.Users {
		users = append(users, newUserResponse(u))
	}

	return respond(c, http.StatusOK, "Users fetched", usersResponse{
		Users:      users,
		Pagination: pagination{Page: page.Page, Limit: page.Limit, Total: page.Total},
	})
}

// ToggleBlock flips the blocked flag of one user.
func (h *Users) ToggleBlock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperror.BadRequest("Invalid user id")
	}

	user, message, err := h.usersService.ToggleBlock(c.UserContext(), id)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, message, newUserResponse(user))
}

// BulkBlock sets the blocked flag on several users.
func (h *Users) BulkBlock(c *fiber.Ctx) error {
	var req bulkBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.BadRequest("Invalid request body").Wrap(err)
	}
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperror.BadRequest(fmt.Sprintf("Invalid user id %q", raw))
		}
		ids = append(ids, id)
	}

	n, message, err := h.usersService.BulkSetBlocked(c.UserContext(), ids, *req.IsBlocked)
	if err != nil {
		return err
	}

	h.logger.Info("Users handler: bulk block applied", "requested", len(ids), "updated", n)
	return respond(c, http.StatusOK, message, bulkBlockResponse{Updated: n})
}
