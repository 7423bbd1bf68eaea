package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/dtos/response"
	"github.com/shin6949/passkey-sample-be/middleware"
	"github.com/shin6949/passkey-sample-be/services"
)

type IUserController interface {
	SignUp(c *fiber.Ctx) error
	CheckEmail(c *fiber.Ctx) error
	Me(c *fiber.Ctx) error
}

type UserController struct {
	users services.IUserService
}

func NewUserController(users services.IUserService) IUserController {
	return &UserController{users: users}
}

func (uc *UserController) SignUp(c *fiber.Ctx) error {
	req := middleware.Body[request.SignUpRequest](c)
	if _, err := uc.users.SignUp(c.UserContext(), req); err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, nil)
}

func (uc *UserController) CheckEmail(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return badRequest(c, "email is required")
	}
	exists, err := uc.users.IsDuplicateEmail(c.UserContext(), email)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, response.EmailCheckResponse{Exists: exists})
}

func (uc *UserController) Me(c *fiber.Ctx) error {
	user, err := uc.users.FindByID(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, response.NewUserResponse(user))
}
