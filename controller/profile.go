package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/dtos/response"
	"github.com/shin6949/passkey-sample-be/middleware"
	"github.com/shin6949/passkey-sample-be/services"
)

type IProfileController interface {
	FetchProfile(c *fiber.Ctx) error
	UpdateProfile(c *fiber.Ctx) error
	CheckCurrentPassword(c *fiber.Ctx) error
	UpdatePassword(c *fiber.Ctx) error
	RevokePasswordChangeToken(c *fiber.Ctx) error
}

type ProfileController struct {
	profile services.IProfileService
	cookies CookieSettings
}

func NewProfileController(profile services.IProfileService, cookies CookieSettings) IProfileController {
	return &ProfileController{profile: profile, cookies: cookies}
}

func (pc *ProfileController) FetchProfile(c *fiber.Ctx) error {
	user, err := pc.profile.FetchProfile(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, response.NewUserResponse(user))
}

func (pc *ProfileController) UpdateProfile(c *fiber.Ctx) error {
	req := middleware.Body[request.UpdateProfileRequest](c)
	user, err := pc.profile.UpdateProfile(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, response.NewUserResponse(user))
}

func (pc *ProfileController) CheckCurrentPassword(c *fiber.Ctx) error {
	req := middleware.Body[request.CheckCurrentPasswordRequest](c)
	result, err := pc.profile.CheckCurrentPassword(c.UserContext(), middleware.CurrentUserID(c), req.InputPassword)
	if err != nil {
		return respondError(c, err)
	}
	if result.IsMatch {
		pc.cookies.SetPasswordChangeToken(c, result.AuthorizationToken)
	}
	return ok(c, fiber.StatusOK, result)
}

// UpdatePassword answers 403 for a bad authorization token, the caller is already signed in.
func (pc *ProfileController) UpdatePassword(c *fiber.Ctx) error {
	req := middleware.Body[request.UpdatePasswordRequest](c)
	err := pc.profile.UpdatePassword(c.UserContext(), middleware.CurrentUserID(c), c.Cookies(PasswordChangeTokenCookie), req)
	if errors.Is(err, services.ErrInvalidToken) {
		return c.Status(fiber.StatusForbidden).JSON(response.ApiResponse{Result: response.INVALID_TOKEN})
	}
	if err != nil {
		return respondError(c, err)
	}
	pc.cookies.ClearPasswordChangeToken(c)
	return ok(c, fiber.StatusOK, nil)
}

func (pc *ProfileController) RevokePasswordChangeToken(c *fiber.Ctx) error {
	pc.cookies.ClearPasswordChangeToken(c)
	return ok(c, fiber.StatusOK, nil)
}
