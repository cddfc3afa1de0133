package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/quizhub-server/internal/apperror"
	"github.com/dtroode/quizhub-server/internal/logger"
)

// SuccessResponse is the envelope of every successful response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope of every failed response.
type ErrorResponse struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(SuccessResponse{Success: true, Message: message, Data: data})
}

// NewErrorHandler maps errors returned by handlers to the error envelope.
// Only *apperror.Error messages reach the client.
func NewErrorHandler(logger *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := apperror.As(err); ok {
			if appErr.Status >= http.StatusInternalServerError {
				logger.Error("HTTP handler: request failed",
					"method", c.Method(),
					"path", c.Path(),
					"status", appErr.Status,
					"error", appErr.Error())
			}
			return c.Status(appErr.Status).JSON(ErrorResponse{Error: appErr.Message, Errors: appErr.Fields})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{Error: fiberErr.Message})
		}

		logger.Error("HTTP handler: unexpected error",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error())
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: "Internal server error"})
	}
}
