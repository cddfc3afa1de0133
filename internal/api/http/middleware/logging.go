package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/quizhub-server/internal/logger"
)

// Logging logs every HTTP request and its outcome.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status for each request. Errors
// are passed to the app error handler before the status is read.
func (l *Logging) Handle(c *fiber.Ctx) error {
	start := time.Now()

	l.logger.Debug("HTTP request started",
		"method", c.Method(),
		"path", c.Path())

	err := c.Next()
	if err != nil {
		if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	l.logger.Info("HTTP request completed",
		"method", c.Method(),
		"path", c.Path(),
		"duration_ms", time.Since(start).Milliseconds(),
		"status", status)

	if err != nil {
		l.logger.Debug("HTTP request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
			"status", status)
	}

	return nil
}
