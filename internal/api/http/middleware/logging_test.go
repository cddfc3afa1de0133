package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/quizhub-server/internal/api/http/handler"
	"github.com/dtroode/quizhub-server/internal/apperror"
	"github.com/dtroode/quizhub-server/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	tests := []struct {
		name       string
		handler    fiber.Handler
		wantStatus int
	}{
		{
			name:       "success path",
			handler:    func(c *fiber.Ctx) error { return c.SendString("ok") },
			wantStatus: http.StatusOK,
		},
		{
			name:       "app error keeps its status",
			handler:    func(c *fiber.Ctx) error { return apperror.NewErrInvalidOTP() },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "plain error becomes 500",
			handler:    func(c *fiber.Ctx) error { return errors.New("boom") },
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&buf, int(slog.LevelInfo))

			app := fiber.New(fiber.Config{ErrorHandler: handler.NewErrorHandler(log)})
			app.Use(NewLogging(log).Handle)
			app.Get("/x", tt.handler)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, buf.String(), "HTTP request completed")
			assert.Contains(t, buf.String(), "/x")
		})
	}
}
