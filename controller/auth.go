package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/middleware"
	"github.com/shin6949/passkey-sample-be/services"
)

type IAuthController interface {
	Login(c *fiber.Ctx) error
	Refresh(c *fiber.Ctx) error
	Logout(c *fiber.Ctx) error
}

type AuthController struct {
	auth    services.IAuthService
	cookies CookieSettings
}

func NewAuthController(auth services.IAuthService, cookies CookieSettings) IAuthController {
	return &AuthController{auth: auth, cookies: cookies}
}

// Login expects a body validated by middleware.ValidateBody[request.LoginRequest].
func (ac *AuthController) Login(c *fiber.Ctx) error {
	req := middleware.Body[request.LoginRequest](c)
	tokens, err := ac.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	ac.cookies.SetRefreshToken(c, tokens.RefreshToken)
	return ok(c, fiber.StatusOK, tokens)
}

func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(RefreshTokenCookie)
	if refreshToken == "" {
		return respondError(c, services.ErrTokenNotFound)
	}
	tokens, err := ac.auth.Refresh(c.UserContext(), refreshToken)
	if err != nil {
		return respondError(c, err)
	}
	ac.cookies.SetRefreshToken(c, tokens.RefreshToken)
	return ok(c, fiber.StatusOK, tokens)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	log.Info("logout request received")
	if err := ac.auth.Logout(c.UserContext(), c.Cookies(RefreshTokenCookie)); err != nil {
		return respondError(c, err)
	}
	ac.cookies.ClearRefreshToken(c)
	return ok(c, fiber.StatusOK, nil)
}
