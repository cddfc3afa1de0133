package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/quizhub-server/internal/model"
)

// PasswordHasher is a mock type for the PasswordHasher type
type PasswordHasher struct {
	mock.Mock
}

func (_m *PasswordHasher) Hash(password string) (string, error) {
	ret := _m.Called(password)
	return ret.String(0), ret.Error(1)
}

func (_m *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	ret := _m.Called(password, encodedHash)
	return ret.Bool(0), ret.Error(1)
}

var _ model.PasswordHasher = (*PasswordHasher)(nil)

// CodeGenerator is a mock type for the CodeGenerator type
type CodeGenerator struct {
	mock.Mock
}

func (_m *CodeGenerator) OTP() (string, error) {
	ret := _m.Called()
	return ret.String(0), ret.Error(1)
}

func (_m *CodeGenerator) ResetToken() (string, error) {
	ret := _m.Called()
	return ret.String(0), ret.Error(1)
}

var _ model.CodeGenerator = (*CodeGenerator)(nil)

// Notifier is a mock type for the Notifier type
type Notifier struct {
	mock.Mock
}

func (_m *Notifier) Send(ctx context.Context, msg model.Message) error {
	ret := _m.Called(ctx, msg)
	return ret.Error(0)
}

var _ model.Notifier = (*Notifier)(nil)

// Storage is a mock type for the Storage type
type Storage struct {
	mock.Mock
}

func (_m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	ret := _m.Called(ctx, key, reader, size, contentType)
	return ret.Error(0)
}

func (_m *Storage) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

var _ model.Storage = (*Storage)(nil)
