package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	RefreshTokenCookie        = "refreshToken"
	PasswordChangeTokenCookie = "passwordChangeAuthorizationToken"
)

// CookieSettings controls the HttpOnly cookies that carry refresh and password-change tokens.
type CookieSettings struct {
	Secure            bool
	RefreshTTL        time.Duration
	PasswordChangeTTL time.Duration
}

func (s CookieSettings) set(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (s CookieSettings) clear(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (s CookieSettings) SetRefreshToken(c *fiber.Ctx, token string) {
	s.set(c, RefreshTokenCookie, token, s.RefreshTTL)
}

func (s CookieSettings) ClearRefreshToken(c *fiber.Ctx) {
	s.clear(c, RefreshTokenCookie)
}

func (s CookieSettings) SetPasswordChangeToken(c *fiber.Ctx, token string) {
	s.set(c, PasswordChangeTokenCookie, token, s.PasswordChangeTTL)
}

func (s CookieSettings) ClearPasswordChangeToken(c *fiber.Ctx) {
	s.clear(c, PasswordChangeTokenCookie)
}
