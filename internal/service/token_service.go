package service

import (
	"fmt"

	"github.com/dtroode/quizhub-server/internal/logger"
	"github.com/dtroode/quizhub-server/internal/model"
)

// TokenService issues token pairs for users and resolves access tokens.
// Refresh tokens are stateless: nothing is persisted, so a presented refresh
// token stays valid until it expires.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

// Issue signs a fresh access and refresh token for user.
func (s *TokenService) Issue(user model.User) (accessToken string, refreshToken string, err error) {
	claims := model.TokenClaims{UserID: user.ID, Role: user.Role}

	access, err := s.manager.GenerateAccessToken(claims)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.manager.GenerateRefreshToken(claims)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}

	return access, refresh, nil
}

// VerifyRefresh returns the claims of a valid refresh token.
func (s *TokenService) VerifyRefresh(refreshToken string) (model.TokenClaims, error) {
	return s.manager.ParseRefreshToken(refreshToken)
}

// GetClaims returns the claims of a valid access token.
func (s *TokenService) GetClaims(accessToken string) (model.TokenClaims, error) {
	claims, err := s.manager.ParseAccessToken(accessToken)
	if err != nil {
		s.logger.Debug("Token service: access token rejected", "error", err.Error())
		return model.TokenClaims{}, err
	}
	return claims, nil
}
