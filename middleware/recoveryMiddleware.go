package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/dtos/response"
)

func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("caught panic on %s %s: %v, stack trace: %s", c.Method(), c.Path(), r, string(debug.Stack()))
				err = c.Status(fiber.StatusInternalServerError).JSON(response.ApiResponse{
					Result: response.INTERNAL_SERVER_ERROR,
				})
			}
		}()
		return c.Next()
	}
}
