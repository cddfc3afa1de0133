package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/quizhub-server/internal/model"
)

// TokenManager is a mock type for the TokenManager type
type TokenManager struct {
	mock.Mock
}

func (_m *TokenManager) GenerateAccessToken(claims model.TokenClaims) (string, error) {
	ret := _m.Called(claims)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenManager) GenerateRefreshToken(claims model.TokenClaims) (string, error) {
	ret := _m.Called(claims)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenManager) ParseAccessToken(token string) (model.TokenClaims, error) {
	ret := _m.Called(token)
	return ret.Get(0).(model.TokenClaims), ret.Error(1)
}

func (_m *TokenManager) ParseRefreshToken(token string) (model.TokenClaims, error) {
	ret := _m.Called(token)
	return ret.Get(0).(model.TokenClaims), ret.Error(1)
}

var _ model.TokenManager = (*TokenManager)(nil)
