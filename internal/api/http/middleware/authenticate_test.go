package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apicontext "github.com/dtroode/quizhub-server/internal/api/http/context"
	"github.com/dtroode/quizhub-server/internal/api/http/handler"
	"github.com/dtroode/quizhub-server/internal/apperror"
	"github.com/dtroode/quizhub-server/internal/model"
	"github.com/dtroode/quizhub-server/internal/testutil"
)

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GetClaims(accessToken string) (model.TokenClaims, error) {
	args := m.Called(accessToken)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}

type mockBlockChecker struct {
	mock.Mock
}

func (m *mockBlockChecker) IsBlocked(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newGuardedApp(ts TokenService, bc BlockChecker, guards ...func(*Authenticate) fiber.Handler) *fiber.App {
	log := testutil.MakeNoopLogger()
	cm := apicontext.NewManager()
	auth := NewAuthenticate(ts, bc, cm, log)

	app := fiber.New(fiber.Config{ErrorHandler: handler.NewErrorHandler(log)})
	handlers := []fiber.Handler{auth.Handle}
	for _, g := range guards {
		handlers = append(handlers, g(auth))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		claims, ok := cm.GetClaimsFromContext(c.UserContext())
		if !ok {
			return errors.New("claims missing")
		}
		return c.SendString(claims.UserID.String())
	})
	app.Get("/protected", handlers...)
	return app
}

func errorOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestAuthenticate_Handle(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		cookie     string
		token      string
		tokenErr   error
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
			wantError:  "Access token is missing",
		},
		{
			name:       "non bearer header",
			header:     "Basic abc",
			wantStatus: http.StatusUnauthorized,
			wantError:  "Access token is missing",
		},
		{
			name:       "expired token",
			header:     "Bearer old",
			token:      "old",
			tokenErr:   model.ErrTokenExpired,
			wantStatus: http.StatusUnauthorized,
			wantError:  apperror.MsgTokenExpired,
		},
		{
			name:       "invalid token",
			header:     "Bearer forged",
			token:      "forged",
			tokenErr:   model.ErrTokenInvalid,
			wantStatus: http.StatusUnauthorized,
			wantError:  apperror.MsgInvalidToken,
		},
		{
			name:       "valid header",
			header:     "Bearer good",
			token:      "good",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid cookie",
			cookie:     "good",
			token:      "good",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := &mockTokenService{}
			if tt.token != "" {
				ts.On("GetClaims", tt.token).Return(model.TokenClaims{UserID: userID, Role: model.RoleUser}, tt.tokenErr)
			}

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "accessToken", Value: tt.cookie})
			}

			resp, err := newGuardedApp(ts, &mockBlockChecker{}).Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorOf(t, resp))
			}
		})
	}
}

func TestAuthenticate_RequireRole(t *testing.T) {
	ts := &mockTokenService{}
	ts.On("GetClaims", "user").Return(model.TokenClaims{UserID: uuid.New(), Role: model.RoleUser}, nil)
	ts.On("GetClaims", "admin").Return(model.TokenClaims{UserID: uuid.New(), Role: model.RoleAdmin}, nil)

	app := newGuardedApp(ts, &mockBlockChecker{}, func(a *Authenticate) fiber.Handler {
		return a.RequireRole(model.RoleAdmin)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer user")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apperror.MsgForbidden, errorOf(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer admin")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticate_RejectBlocked(t *testing.T) {
	active, blocked := uuid.New(), uuid.New()
	ts := &mockTokenService{}
	ts.On("GetClaims", "active").Return(model.TokenClaims{UserID: active, Role: model.RoleAdmin}, nil)
	ts.On("GetClaims", "blocked").Return(model.TokenClaims{UserID: blocked, Role: model.RoleAdmin}, nil)
	bc := &mockBlockChecker{}
	bc.On("IsBlocked", mock.Anything, active).Return(false, nil)
	bc.On("IsBlocked", mock.Anything, blocked).Return(true, nil)

	app := newGuardedApp(ts, bc, func(a *Authenticate) fiber.Handler { return a.RejectBlocked })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer blocked")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apperror.MsgUserBlocked, errorOf(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer active")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
