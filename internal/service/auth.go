package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/quizhub-server/internal/apperror"
	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
	"github.com/dtroode/quizhub-server/internal/notification"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// AuthConfig holds the lifetimes and links used by Auth.
type AuthConfig struct {
	OTPTTL   time.Duration
	ResetTTL time.Duration
	ResetURL string
}

// SignUpRequest is a new account awaiting OTP confirmation.
type SignUpRequest struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

type Auth struct {
	userStore         model.UserStore
	registrationStore model.RegistrationStore
	resetTokenStore   model.ResetTokenStore
	hasher            model.PasswordHasher
	codes             model.CodeGenerator
	notifier          model.Notifier
	tokenService      *TokenService
	cfg               AuthConfig
	logger            *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	registrationStore model.RegistrationStore,
	resetTokenStore model.ResetTokenStore,
	hasher model.PasswordHasher,
	codes model.CodeGenerator,
	notifier model.Notifier,
	tokenService *TokenService,
	cfg AuthConfig,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:         userStore,
		registrationStore: registrationStore,
		resetTokenStore:   resetTokenStore,
		hasher:            hasher,
		codes:             codes,
		notifier:          notifier,
		tokenService:      tokenService,
		cfg:               cfg,
		logger:            logger,
	}
}

// SignUp stores a pending registration and mails its OTP. The code is sent
// before anything is stored, so a failed delivery leaves no record behind.
func (a *Auth) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	a.logger.Debug("Auth service: starting user registration", "email", req.Email)

	if err := a.ensureEmailFree(ctx, req.Email); err != nil {
		return "", err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password", "email", req.Email, "error", err.Error())
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := a.codes.OTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := a.sendOTP(ctx, req.Email, code); err != nil {
		return "", err
	}

	reg := model.PendingRegistration{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		OTP:          code,
	}
	if err := a.registrationStore.Save(ctx, reg, a.cfg.OTPTTL); err != nil {
		a.logger.Error("Auth service: failed to save pending registration", "email", req.Email, "error", err.Error())
		return "", fmt.Errorf("failed to save pending registration: %w", err)
	}

	a.logger.Info("Auth service: verification code sent", "email", req.Email)
	return req.Email, nil
}

// VerifyOTP turns a pending registration into a user and signs them in.
func (a *Auth) VerifyOTP(ctx context.Context, email, code string) (model.Session, error) {
	reg, err := a.registrationStore.Get(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, apperror.NewErrOTPNotFound()
		}
		a.logger.Error("Auth service: failed to get pending registration", "email", email, "error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get pending registration: %w", err)
	}

	if reg.OTP != code {
		a.logger.Info("Auth service: otp mismatch", "email", email)
		return model.Session{}, apperror.NewErrInvalidOTP()
	}

	now := time.Now().UTC()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         NameFromEmail(reg.Email),
		Email:        reg.Email,
		PasswordHash: reg.PasswordHash,
		Role:         reg.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.Session{}, apperror.NewErrUserCreation().Wrap(err)
		}
		a.logger.Error("Auth service: failed to create user", "email", email, "error", err.Error())
		return model.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	if err := a.registrationStore.Delete(ctx, email); err != nil {
		a.logger.Warn("Auth service: failed to delete pending registration", "email", email, "error", err.Error())
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID.String())
	return a.newSession(user)
}

// ResendOTP mails a fresh code for an existing pending registration and
// restarts its lifetime.
func (a *Auth) ResendOTP(ctx context.Context, email string) (string, error) {
	reg, err := a.registrationStore.Get(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", apperror.NewErrOTPNotFound()
		}
		return "", fmt.Errorf("failed to get pending registration: %w", err)
	}

	code, err := a.codes.OTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := a.sendOTP(ctx, email, code); err != nil {
		return "", err
	}

	reg.OTP = code
	if err := a.registrationStore.Replace(ctx, reg, a.cfg.OTPTTL); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", apperror.NewErrOTPNotFound()
		}
		a.logger.Error("Auth service: failed to replace pending registration", "email", email, "error", err.Error())
		return "", fmt.Errorf("failed to replace pending registration: %w", err)
	}

	return email, nil
}

// SignIn checks credentials and issues a session.
func (a *Auth) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	user, err := a.getUserByEmail(ctx, email)
	if err != nil {
		return model.Session{}, err
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password", "user_id", user.ID.String(), "error", err.Error())
		return model.Session{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		a.logger.Info("Auth service: invalid password", "user_id", user.ID.String())
		return model.Session{}, apperror.NewErrInvalidPassword()
	}

	if user.IsBlocked {
		a.logger.Info("Auth service: blocked user tried to sign in", "user_id", user.ID.String())
		return model.Session{}, apperror.NewErrUserBlocked()
	}

	return a.newSession(user)
}

// ForgotPassword mails a single-use reset link to a known user.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	if _, err := a.getUserByEmail(ctx, email); err != nil {
		return err
	}

	token, err := a.codes.ResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := a.resetTokenStore.Save(ctx, token, email, a.cfg.ResetTTL); err != nil {
		a.logger.Error("Auth service: failed to save reset token", "email", email, "error", err.Error())
		return apperror.Internal("Failed to store reset token").Wrap(err)
	}

	link, err := resetLink(a.cfg.ResetURL, token)
	if err != nil {
		return fmt.Errorf("failed to build reset link: %w", err)
	}

	msg, err := notification.ResetPasswordMessage(email, link, a.cfg.ResetTTL)
	if err != nil {
		return err
	}
	if err := a.notifier.Send(ctx, msg); err != nil {
		a.logger.Error("Auth service: failed to send reset link", "email", email, "error", err.Error())
		return apperror.NewErrDelivery().Wrap(err)
	}

	return nil
}

// ResetPassword sets a new password for the email a reset token was issued to.
// The token is consumed before the update, so a failure after that point
// needs a new reset link.
func (a *Auth) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := a.resetTokenStore.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apperror.NewErrResetTokenExpired()
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userStore.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		a.logger.Error("Auth service: failed to update password", "email", email, "error", err.Error())
		if errors.Is(err, model.ErrNotFound) {
			return apperror.Internal("Failed to update password").Wrap(err)
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Info("Auth service: password reset", "email", email)
	return nil
}

// Refresh exchanges a refresh token for a new session.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	if refreshToken == "" {
		return model.Session{}, apperror.NewErrMissingRefreshToken()
	}

	claims, err := a.tokenService.VerifyRefresh(refreshToken)
	if err != nil {
		a.logger.Info("Auth service: refresh token rejected", "error", err.Error())
		return model.Session{}, apperror.NewErrInvalidRefreshToken().Wrap(err)
	}

	user, err := a.GetUser(ctx, claims.UserID)
	if err != nil {
		return model.Session{}, err
	}

	if user.IsBlocked {
		return model.Session{}, apperror.NewErrUserBlocked()
	}

	return a.newSession(user)
}

// GetUser returns the user with the given id.
func (a *Auth) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apperror.NewErrUserNotFound()
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// NameFromEmail derives a display name from the local part of an email.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return nonAlphanumeric.ReplaceAllString(local, "_")
}

func (a *Auth) ensureEmailFree(ctx context.Context, email string) error {
	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists", "email", email)
		return apperror.NewErrEmailTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email", "email", email, "error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	return nil
}

func (a *Auth) getUserByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apperror.NewErrUserNotFound()
		}
		a.logger.Error("Auth service: failed to get user by email", "email", email, "error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (a *Auth) sendOTP(ctx context.Context, email, code string) error {
	msg, err := notification.OTPMessage(email, code, a.cfg.OTPTTL)
	if err != nil {
		return err
	}
	if err := a.notifier.Send(ctx, msg); err != nil {
		a.logger.Error("Auth service: failed to send otp", "email", email, "error", err.Error())
		return apperror.NewErrDelivery().Wrap(err)
	}
	return nil
}

func (a *Auth) newSession(user model.User) (model.Session, error) {
	access, refresh, err := a.tokenService.Issue(user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens", "user_id", user.ID.String(), "error", err.Error())
		return model.Session{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return model.Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func resetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
