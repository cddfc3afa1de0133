package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/quizhub-server/internal/model"
)

// Claims represents JWT claims with token type, user ID and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID  `json:"id"`
	Role      model.Role `json:"role"`
	TokenType string     `json:"typ"`
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// domain is one signing domain: a secret, a lifetime and a token type.
type domain struct {
	secret    []byte
	ttl       time.Duration
	tokenType string
}

// JWT implements TokenManager with separate HMAC secrets for access and refresh tokens.
type JWT struct {
	access  domain
	refresh domain
	now     func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager.
func NewJWT(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWT {
	return &JWT{
		access:  domain{secret: []byte(accessSecret), ttl: accessTTL, tokenType: typeAccess},
		refresh: domain{secret: []byte(refreshSecret), ttl: refreshTTL, tokenType: typeRefresh},
		now:     time.Now,
	}
}

// GenerateAccessToken creates a short-lived access token.
func (j *JWT) GenerateAccessToken(claims model.TokenClaims) (string, error) {
	token, err := j.sign(j.access, claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// GenerateRefreshToken creates a long-lived refresh token. Every call yields
// a distinct token because each one carries a fresh JTI.
func (j *JWT) GenerateRefreshToken(claims model.TokenClaims) (string, error) {
	token, err := j.sign(j.refresh, claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return token, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (j *JWT) ParseAccessToken(tokenString string) (model.TokenClaims, error) {
	claims, err := j.parse(j.access, tokenString)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	return claims, nil
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (j *JWT) ParseRefreshToken(tokenString string) (model.TokenClaims, error) {
	claims, err := j.parse(j.refresh, tokenString)
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("failed to parse refresh token: %w", err)
	}
	return claims, nil
}

func (j *JWT) sign(d domain, claims model.TokenClaims) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d.ttl)),
		},
		UserID:    claims.UserID,
		Role:      claims.Role,
		TokenType: d.tokenType,
	})

	return token.SignedString(d.secret)
}

func (j *JWT) parse(d domain, tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return d.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenClaims{}, fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
		}
		return model.TokenClaims{}, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return model.TokenClaims{}, model.ErrTokenInvalid
	}
	if claims.TokenType != d.tokenType {
		return model.TokenClaims{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrTokenInvalid, claims.TokenType)
	}
	if claims.UserID == uuid.Nil {
		return model.TokenClaims{}, fmt.Errorf("%w: missing subject", model.ErrTokenInvalid)
	}

	return model.TokenClaims{UserID: claims.UserID, Role: claims.Role}, nil
}
