package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelFor logs server faults as errors and client mistakes as warnings.
// A 429 stays at info, the limiter rejects on purpose.
func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zap.ErrorLevel
	case status == http.StatusTooManyRequests:
		return zap.InfoLevel
	case status >= http.StatusBadRequest:
		return zap.WarnLevel
	default:
		return zap.InfoLevel
	}
}

// LoggingMiddleware writes one line per request with the envelope's result code.
func LoggingMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		entry := logger.Check(levelFor(status), http.StatusText(status))
		if entry == nil {
			return err
		}

		var envelope struct {
			Result string `json:"result"`
			Error  string `json:"error"`
		}
		// NOTE: non-JSON bodies log empty fields
		_ = json.Unmarshal(c.Response().Body(), &envelope)

		entry.Write(
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.String("result", envelope.Result),
			zap.String("err", envelope.Error),
			zap.String("user_id", CurrentUserID(c)),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
