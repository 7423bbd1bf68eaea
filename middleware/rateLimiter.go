package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/shin6949/passkey-sample-be/dtos/response"
)

// GlobalRateLimiter limits every client by IP. Non-positive settings fall back to 100 requests per minute.
func GlobalRateLimiter(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		LimitReached: limitReached("too many requests, slow down"),
	})
}

// RouteRateLimiter guards credential endpoints with a tighter window keyed by IP and path.
func RouteRateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + ":" + c.Path()
		},
		LimitReached: limitReached("rate limit exceeded"),
	})
}

func limitReached(msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusTooManyRequests).JSON(response.ApiResponse{
			Result: response.BAD_REQUEST,
			Error:  msg,
		})
	}
}
