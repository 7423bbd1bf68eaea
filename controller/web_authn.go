package controller

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/middleware"
	"github.com/shin6949/passkey-sample-be/services"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type IWebAuthnController interface {
	RegisterOptions(c *fiber.Ctx) error
	Register(c *fiber.Ctx) error
	AuthenticateOptions(c *fiber.Ctx) error
	Login(c *fiber.Ctx) error
}

type WebAuthnController struct {
	webAuthn services.IWebAuthnService
	cookies  CookieSettings
}

func NewWebAuthnController(webAuthn services.IWebAuthnService, cookies CookieSettings) IWebAuthnController {
	return &WebAuthnController{webAuthn: webAuthn, cookies: cookies}
}

// toHTTPRequest converts the fasthttp request for the ceremony engine, which reads net/http requests.
func toHTTPRequest(c *fiber.Ctx) (*http.Request, error) {
	req := new(http.Request)
	if err := fasthttpadaptor.ConvertRequest(c.Context(), req, true); err != nil {
		return nil, err
	}
	return req.WithContext(c.UserContext()), nil
}

func (wc *WebAuthnController) RegisterOptions(c *fiber.Ctx) error {
	options, err := wc.webAuthn.RegisterStart(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(options)
}

func (wc *WebAuthnController) Register(c *fiber.Ctx) error {
	req, err := toHTTPRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := wc.webAuthn.RegisterFinish(c.UserContext(), middleware.CurrentUserID(c), c.Query("label"), req); err != nil {
		return respondError(c, err)
	}
	log.Infof("passkey registered for user %s", middleware.CurrentUserID(c))
	return ok(c, fiber.StatusOK, nil)
}

func (wc *WebAuthnController) AuthenticateOptions(c *fiber.Ctx) error {
	options, err := wc.webAuthn.LoginStart(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, options)
}

func (wc *WebAuthnController) Login(c *fiber.Ctx) error {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		return badRequest(c, "sessionId is required")
	}
	req, err := toHTTPRequest(c)
	if err != nil {
		return respondError(c, err)
	}
	tokens, err := wc.webAuthn.LoginFinish(c.UserContext(), sessionID, req)
	if err != nil {
		return respondError(c, err)
	}
	wc.cookies.SetRefreshToken(c, tokens.RefreshToken)
	return ok(c, fiber.StatusOK, tokens)
}
