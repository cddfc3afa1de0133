package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/quizhub-server/internal/model"
)

func TestManager_SetAndGetClaims(t *testing.T) {
	m := NewManager()
	claims := model.TokenClaims{UserID: uuid.New(), Role: model.RoleAdmin}

	ctx := m.SetClaimsToContext(context.Background(), claims)
	got, ok := m.GetClaimsFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, claims, got)
}

func TestManager_GetClaims_Missing(t *testing.T) {
	m := NewManager()

	got, ok := m.GetClaimsFromContext(context.Background())
	assert.False(t, ok)
	assert.Equal(t, model.TokenClaims{}, got)
}
