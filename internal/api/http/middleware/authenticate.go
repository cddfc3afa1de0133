package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/quizhub-server/internal/apperror"
	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
)

const accessCookie = "accessToken"

// TokenService resolves claims from access tokens.
type TokenService interface {
	GetClaims(accessToken string) (model.TokenClaims, error)
}

// BlockChecker reports whether a user is blocked.
type BlockChecker interface {
	IsBlocked(ctx context.Context, id uuid.UUID) (bool, error)
}

// Authenticate validates access tokens and guards routes by role and status.
type Authenticate struct {
	tokenService   TokenService
	blockChecker   BlockChecker
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	tokenService TokenService,
	blockChecker BlockChecker,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		tokenService:   tokenService,
		blockChecker:   blockChecker,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle reads the bearer token, falling back to the access token cookie,
// and stores its claims in the request context.
func (m *Authenticate) Handle(c *fiber.Ctx) error {
	tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
	if tokenString == "" {
		tokenString = c.Cookies(accessCookie)
	}
	if tokenString == "" {
		return apperror.NewErrMissingAccessToken()
	}

	claims, err := m.tokenService.GetClaims(tokenString)
	if err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			return apperror.NewErrAccessTokenExpired()
		}
		return apperror.NewErrInvalidAccessToken()
	}

	c.SetUserContext(m.contextManager.SetClaimsToContext(c.UserContext(), claims))
	return c.Next()
}

// RequireRole rejects requests whose token carries a different role.
func (m *Authenticate) RequireRole(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := m.contextManager.GetClaimsFromContext(c.UserContext())
		if !ok {
			return apperror.NewErrMissingAccessToken()
		}
		if claims.Role != role {
			m.logger.Info("Authenticate middleware: role rejected",
				"user_id", claims.UserID.String(),
				"role", string(claims.Role),
				"path", c.Path())
			return apperror.NewErrRoleForbidden()
		}
		return c.Next()
	}
}

// RejectBlocked looks the user up and rejects blocked accounts.
func (m *Authenticate) RejectBlocked(c *fiber.Ctx) error {
	claims, ok := m.contextManager.GetClaimsFromContext(c.UserContext())
	if !ok {
		return apperror.NewErrMissingAccessToken()
	}

	blocked, err := m.blockChecker.IsBlocked(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}
	if blocked {
		return apperror.NewErrUserBlocked()
	}
	return c.Next()
}

func bearerToken(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
