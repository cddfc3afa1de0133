package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/quizhub-server/internal/model"
)

// UserStore is a mock type for the UserStore type
type UserStore struct {
	mock.Mock
}

func (_m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ret := _m.Called(ctx, email)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	ret := _m.Called(ctx, user)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	ret := _m.Called(ctx, email, passwordHash)
	return ret.Error(0)
}

func (_m *UserStore) List(ctx context.Context, filter model.UserFilter) ([]model.User, int, error) {
	ret := _m.Called(ctx, filter)
	var users []model.User
	if v := ret.Get(0); v != nil {
		users = v.([]model.User)
	}
	return users, ret.Int(1), ret.Error(2)
}

func (_m *UserStore) ToggleBlocked(ctx context.Context, id uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) SetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int64, error) {
	ret := _m.Called(ctx, ids, blocked)
	return ret.Get(0).(int64), ret.Error(1)
}

var _ model.UserStore = (*UserStore)(nil)
