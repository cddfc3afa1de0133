package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontext "github.com/dtroode/quizhub-server/internal/api/http/context"
	"github.com/dtroode/quizhub-server/internal/api/http/handler"
	"github.com/dtroode/quizhub-server/internal/model"
	"github.com/dtroode/quizhub-server/internal/service"
	"github.com/dtroode/quizhub-server/internal/testutil"
	"github.com/dtroode/quizhub-server/internal/validation"
)

type stubTokens struct{}

func (stubTokens) GetClaims(token string) (model.TokenClaims, error) {
	if token == "user-token" {
		return model.TokenClaims{UserID: uuid.New(), Role: model.RoleUser}, nil
	}
	return model.TokenClaims{}, model.ErrTokenInvalid
}

type stubBlocks struct{}

func (stubBlocks) IsBlocked(context.Context, uuid.UUID) (bool, error) { return false, nil }

func newTestRouter() *Router {
	log := testutil.MakeNoopLogger()
	return New(
		&service.Auth{},
		&service.Users{},
		stubTokens{},
		stubBlocks{},
		validation.New(),
		apicontext.NewManager(),
		map[string]model.Pinger{},
		Config{ClientURL: "http://localhost:5173", Cookies: handler.CookieConfig{}},
		log,
	)
}

func TestRouter_Register(t *testing.T) {
	app := newTestRouter().Register()

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "authorisation without token", method: http.MethodGet, path: "/api/auth/autherisation", wantStatus: http.StatusUnauthorized},
		{name: "logout", method: http.MethodPost, path: "/api/auth/logout", wantStatus: http.StatusOK},
		{name: "admin without token", method: http.MethodGet, path: "/api/admin/users", wantStatus: http.StatusUnauthorized},
		{name: "admin with user role", method: http.MethodGet, path: "/api/admin/users", token: "user-token", wantStatus: http.StatusForbidden},
		{name: "unknown route", method: http.MethodGet, path: "/api/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	app := newTestRouter().Register()

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "x-token-version")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "x-token-version")
}
