package model

import "github.com/google/uuid"

// TokenClaims is the identity carried by access and refresh tokens.
type TokenClaims struct {
	UserID uuid.UUID
	Role   Role
}

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	GenerateRefreshToken(claims TokenClaims) (string, error)
	ParseAccessToken(token string) (TokenClaims, error)
	ParseRefreshToken(token string) (TokenClaims, error)
}

// Session is the result of a successful authentication.
type Session struct {
	User         User
	AccessToken  string
	RefreshToken string
}
