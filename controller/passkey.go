package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/middleware"
	"github.com/shin6949/passkey-sample-be/services"
)

type IPasskeyController interface {
	List(c *fiber.Ctx) error
	UpdateLabel(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

type PasskeyController struct {
	passkeys services.IPasskeyService
}

func NewPasskeyController(passkeys services.IPasskeyService) IPasskeyController {
	return &PasskeyController{passkeys: passkeys}
}

func (pc *PasskeyController) List(c *fiber.Ctx) error {
	passkeys, err := pc.passkeys.List(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, passkeys)
}

func (pc *PasskeyController) UpdateLabel(c *fiber.Ctx) error {
	req := middleware.Body[request.UpdatePasskeyRequest](c)
	if err := pc.passkeys.UpdateLabel(c.UserContext(), middleware.CurrentUserID(c), req.UUID, req.Name); err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (pc *PasskeyController) Delete(c *fiber.Ctx) error {
	if err := pc.passkeys.Delete(c.UserContext(), middleware.CurrentUserID(c), c.Params("uuid")); err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}
