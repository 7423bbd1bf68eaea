package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/dtos/response"
	"github.com/shin6949/passkey-sample-be/services"
)

type errorMapping struct {
	target error
	status int
	result response.ApiResultCode
}

var errorMappings = []errorMapping{
	{services.ErrInvalidToken, fiber.StatusUnauthorized, response.INVALID_TOKEN},
	{services.ErrTokenNotFound, fiber.StatusUnauthorized, response.TOKEN_NOT_FOUND},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized, response.INVALID_CREDENTIALS},
	{services.ErrDisabledUser, fiber.StatusForbidden, response.DISABLED_USER},
	{services.ErrUserNotFound, fiber.StatusNotFound, response.USER_NOT_FOUND},
	{services.ErrDuplicateEmail, fiber.StatusConflict, response.DUPLICATE_EMAIL},
	{services.ErrPasswordMismatch, fiber.StatusBadRequest, response.PASSWORD_MISMATCH},
	{services.ErrPasskeyNotFound, fiber.StatusNotFound, response.PASSKEY_NOT_FOUND},
	{services.ErrMismatchedOwnership, fiber.StatusNotFound, response.INVALID_CREDENTIALS},
	{services.ErrPasskeySession, fiber.StatusBadRequest, response.BAD_REQUEST},
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(response.ApiResponse{Result: response.SUCCESS, Data: data})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(response.ApiResponse{Result: response.BAD_REQUEST, Error: msg})
}

// respondError writes the envelope for a service error. Unknown errors are logged and hidden behind a 500.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(response.ApiResponse{Result: m.result, Error: m.target.Error()})
		}
	}
	log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(response.ApiResponse{Result: response.INTERNAL_SERVER_ERROR})
}
