package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/dtos/response"
	"github.com/shin6949/passkey-sample-be/services"
)

const userIDLocal = "userId"

var DefaultPublicPaths = []string{"/webauthn/", "/login/webauthn", "/api/user/", "/api/auth/"}

func isPublic(path string, publicPaths []string) bool {
	for _, prefix := range publicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(response.ApiResponse{
		Result: response.INVALID_TOKEN,
		Error:  "missing or invalid access token",
	})
}

// AuthMiddleware resolves the bearer access token into the request principal.
// Requests on a public path prefix continue without a principal when the token is missing or invalid.
func AuthMiddleware(tokens services.ITokenService, publicPaths []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if found && tokenString != "" {
			if err := tokens.Validate(c.UserContext(), tokenString, services.KindAccess); err == nil {
				if userID, err := tokens.SubjectOf(tokenString, services.KindAccess); err == nil {
					c.Locals(userIDLocal, userID)
					return c.Next()
				}
			}
		}

		if isPublic(c.Path(), publicPaths) {
			return c.Next()
		}
		log.Debugf("rejected unauthenticated request to %s", c.Path())
		return unauthorized(c)
	}
}

// RequireAuth guards routes that sit under a public prefix but still need a principal.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUserID(c) == "" {
			return unauthorized(c)
		}
		return c.Next()
	}
}

func CurrentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDLocal).(string)
	return userID
}
