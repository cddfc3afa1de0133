package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/quizhub-server/internal/model"
)

// RegistrationStore is a mock type for the RegistrationStore type
type RegistrationStore struct {
	mock.Mock
}

func (_m *RegistrationStore) Save(ctx context.Context, reg model.PendingRegistration, ttl time.Duration) error {
	ret := _m.Called(ctx, reg, ttl)
	return ret.Error(0)
}

func (_m *RegistrationStore) Replace(ctx context.Context, reg model.PendingRegistration, ttl time.Duration) error {
	ret := _m.Called(ctx, reg, ttl)
	return ret.Error(0)
}

func (_m *RegistrationStore) Get(ctx context.Context, email string) (model.PendingRegistration, error) {
	ret := _m.Called(ctx, email)
	return ret.Get(0).(model.PendingRegistration), ret.Error(1)
}

func (_m *RegistrationStore) Delete(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

var _ model.RegistrationStore = (*RegistrationStore)(nil)

// ResetTokenStore is a mock type for the ResetTokenStore type
type ResetTokenStore struct {
	mock.Mock
}

func (_m *ResetTokenStore) Save(ctx context.Context, token, email string, ttl time.Duration) error {
	ret := _m.Called(ctx, token, email, ttl)
	return ret.Error(0)
}

func (_m *ResetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	ret := _m.Called(ctx, token)
	return ret.String(0), ret.Error(1)
}

var _ model.ResetTokenStore = (*ResetTokenStore)(nil)
