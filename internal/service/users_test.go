package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/quizhub-server/internal/mocks"
	"github.com/dtroode/quizhub-server/internal/model"
	"github.com/dtroode/quizhub-server/internal/testutil"
)

func TestUsers_List(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		store := &mocks.UserStore{}
		store.On("List", mock.Anything, model.UserFilter{Search: "ann", Page: 1, Limit: 10}).
			Return(nil, 0, nil)

		page, err := NewUsers(store, testutil.MakeNoopLogger()).List(context.Background(), model.UserFilter{Search: "ann"})
		require.NoError(t, err)
		assert.NotNil(t, page.Users)
		assert.Empty(t, page.Users)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Limit)
	})

	t.Run("caps limit", func(t *testing.T) {
		store := &mocks.UserStore{}
		users := []model.User{{ID: uuid.New()}, {ID: uuid.New()}}
		store.On("List", mock.Anything, model.UserFilter{Status: model.UserStatusBlocked, Page: 3, Limit: 100}).
			Return(users, 202, nil)

		page, err := NewUsers(store, testutil.MakeNoopLogger()).List(context.Background(),
			model.UserFilter{Status: model.UserStatusBlocked, Page: 3, Limit: 1000})
		require.NoError(t, err)
		assert.Len(t, page.Users, 2)
		assert.Equal(t, 202, page.Total)
	})

	t.Run("store error", func(t *testing.T) {
		store := &mocks.UserStore{}
		store.On("List", mock.Anything, mock.Anything).Return(nil, 0, errors.New("db down"))

		_, err := NewUsers(store, testutil.MakeNoopLogger()).List(context.Background(), model.UserFilter{})
		require.Error(t, err)
	})
}

func TestUsers_ToggleBlock(t *testing.T) {
	id := uuid.New()

	t.Run("blocked", func(t *testing.T) {
		store := &mocks.UserStore{}
		store.On("ToggleBlocked", mock.Anything, id).Return(model.User{ID: id, IsBlocked: true}, nil)

		user, msg, err := NewUsers(store, testutil.MakeNoopLogger()).ToggleBlock(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, user.IsBlocked)
		assert.Equal(t, "User blocked", msg)
	})

	t.Run("unblocked", func(t *testing.T) {
		store := &mocks.UserStore{}
		store.On("ToggleBlocked", mock.Anything, id).Return(model.User{ID: id}, nil)

		_, msg, err := NewUsers(store, testutil.MakeNoopLogger()).ToggleBlock(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "User unblocked", msg)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := &mocks.UserStore{}
		store.On("ToggleBlocked", mock.Anything, id).Return(model.User{}, model.ErrNotFound)

		_, _, err := NewUsers(store, testutil.MakeNoopLogger()).ToggleBlock(context.Background(), id)
		requireStatus(t, err, http.StatusNotFound)
	})
}

func TestUsers_BulkSetBlocked(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	store := &mocks.UserStore{}
	store.On("SetBlocked", mock.Anything, ids, true).Return(int64(2), nil)
	store.On("SetBlocked", mock.Anything, ids, false).Return(int64(3), nil)
	s := NewUsers(store, testutil.MakeNoopLogger())

	n, msg, err := s.BulkSetBlocked(context.Background(), ids, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "2 users blocked", msg)

	_, msg, err = s.BulkSetBlocked(context.Background(), ids, false)
	require.NoError(t, err)
	assert.Equal(t, "3 users unblocked", msg)

	_, _, err = s.BulkSetBlocked(context.Background(), nil, true)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestUsers_IsBlocked(t *testing.T) {
	active, blocked, gone := uuid.New(), uuid.New(), uuid.New()
	store := &mocks.UserStore{}
	store.On("GetByID", mock.Anything, active).Return(model.User{ID: active}, nil)
	store.On("GetByID", mock.Anything, blocked).Return(model.User{ID: blocked, IsBlocked: true}, nil)
	store.On("GetByID", mock.Anything, gone).Return(model.User{}, model.ErrNotFound)
	s := NewUsers(store, testutil.MakeNoopLogger())

	got, err := s.IsBlocked(context.Background(), active)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = s.IsBlocked(context.Background(), blocked)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = s.IsBlocked(context.Background(), gone)
	require.NoError(t, err)
	assert.True(t, got)
}
