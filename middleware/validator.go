package middleware

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shin6949/passkey-sample-be/dtos/response"
)

var Validate *validator.Validate

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?~` + "`" + `]`)
)

// InitValidator initializes validator and custom rules
func InitValidator() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		if len(password) < 8 {
			return false
		}
		return upperRe.MatchString(password) &&
			lowerRe.MatchString(password) &&
			digitRe.MatchString(password) &&
			symbolRe.MatchString(password)
	})
}

func translateValidationErrors(err validator.ValidationErrors) map[string]string {
	errorsMap := make(map[string]string)
	for _, e := range err {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errorsMap[field] = field + " is required"
		case "email":
			errorsMap[field] = field + " must be a valid email"
		case "max":
			errorsMap[field] = field + " is too long"
		case "password":
			errorsMap[field] = field + " must be at least 8 characters, with 1 uppercase, 1 lowercase, 1 number and 1 symbol"
		default:
			errorsMap[field] = field + " is invalid"
		}
	}
	return errorsMap
}

// ValidateBody is Fiber middleware that validates request body
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body T

		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(response.ApiResponse{
				Result: response.BAD_REQUEST,
				Error:  "invalid request body",
			})
		}

		if err := Validate.Struct(&body); err != nil {
			var errs validator.ValidationErrors
			if errors.As(err, &errs) {
				return c.Status(fiber.StatusBadRequest).JSON(response.ApiResponse{
					Result: response.BAD_REQUEST,
					Data:   translateValidationErrors(errs),
					Error:  "validation failed",
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(response.ApiResponse{
				Result: response.BAD_REQUEST,
				Error:  err.Error(),
			})
		}

		// Store validated body in context for controller
		c.Locals("body", &body)
		return c.Next()
	}
}

// Body returns the payload stored by ValidateBody.
func Body[T any](c *fiber.Ctx) *T {
	body, _ := c.Locals("body").(*T)
	return body
}
