package handler

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/quizhub-server/internal/apperror"
	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
	"github.com/dtroode/quizhub-server/internal/service"
)

// AuthService defines the account lifecycle operations.
type AuthService interface {
	SignUp(ctx context.Context, req service.SignUpRequest) (string, error)
	VerifyOTP(ctx context.Context, email, code string) (model.Session, error)
	ResendOTP(ctx context.Context, email string) (string, error)
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (model.Session, error)
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
}

// Validator checks decoded request bodies.
type Validator interface {
	Struct(s any) error
}

// Auth handles the /api/auth endpoints.
type Auth struct {
	authService    AuthService
	validator      Validator
	contextManager model.ContextManager
	cookies        CookieConfig
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	authService AuthService,
	validator Validator,
	contextManager model.ContextManager,
	cookies CookieConfig,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		validator:      validator,
		contextManager: contextManager,
		cookies:        cookies,
		logger:         logger,
	}
}

// Register starts a sign-up and mails the verification code.
func (h *Auth) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	email, err := h.authService.SignUp(c.UserContext(), service.SignUpRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "OTP sent to email", emailResponse{Email: email})
}

// VerifyOTP confirms a sign-up and opens a session.
func (h *Auth) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	session, err := h.authService.VerifyOTP(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return err
	}

	h.logger.Info("Auth handler: registration completed", "user_id", session.User.ID.String())
	return h.openSession(c, http.StatusCreated, "User registered successfully", session)
}

// ResendOTP mails a new verification code.
func (h *Auth) ResendOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	email, err := h.authService.ResendOTP(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "OTP resent to email", emailResponse{Email: email})
}

// Login checks credentials and opens a session.
func (h *Auth) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	session, err := h.authService.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return h.openSession(c, http.StatusOK, "Login successful", session)
}

// ForgotPassword mails a password reset link.
func (h *Auth) ForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Password reset link sent to email", nil)
}

// ResetPassword sets a new password using a reset token.
func (h *Auth) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.UserContext(), req.Token, req.Password); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Password reset successful", nil)
}

// RefreshToken rotates the refresh cookie and returns a new access token.
// A rejected refresh token clears the cookie.
func (h *Auth) RefreshToken(c *fiber.Ctx) error {
	session, err := h.authService.Refresh(c.UserContext(), c.Cookies(RefreshCookie))
	if err != nil {
		h.cookies.clearRefresh(c)
		return err
	}

	return h.openSession(c, http.StatusOK, "Token refreshed", session)
}

// Authorisation returns the user behind the presented access token.
func (h *Auth) Authorisation(c *fiber.Ctx) error {
	claims, ok := h.contextManager.GetClaimsFromContext(c.UserContext())
	if !ok {
		return apperror.NewErrMissingAccessToken()
	}

	user, err := h.authService.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "User authorised", newUserResponse(user))
}

// Logout clears the refresh cookie.
func (h *Auth) Logout(c *fiber.Ctx) error {
	h.cookies.clearRefresh(c)
	return respond(c, http.StatusOK, "Logged out", nil)
}

func (h *Auth) openSession(c *fiber.Ctx, status int, message string, session model.Session) error {
	h.cookies.setRefresh(c, session.RefreshToken)
	return respond(c, status, message, sessionResponse{
		User:        newUserResponse(session.User),
		AccessToken: session.AccessToken,
	})
}

func (h *Auth) decode(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.BadRequest("Invalid request body").Wrap(err)
	}
	return h.validator.Struct(dst)
}
