package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shin6949/passkey-sample-be/config"
	"github.com/shin6949/passkey-sample-be/controller"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/middleware"
	"github.com/shin6949/passkey-sample-be/services"
	"go.uber.org/zap"
)

type Server struct {
	Tokens             services.ITokenService
	Logger             *zap.Logger
	AuthController     controller.IAuthController
	UserController     controller.IUserController
	ProfileController  controller.IProfileController
	PasskeyController  controller.IPasskeyController
	WebAuthnController controller.IWebAuthnController
}

// NOTE: Server Constructor
func NewServer(
	tokens services.ITokenService,
	logger *zap.Logger,
	authController controller.IAuthController,
	userController controller.IUserController,
	profileController controller.IProfileController,
	passkeyController controller.IPasskeyController,
	webAuthnController controller.IWebAuthnController,
) *Server {
	return &Server{
		Tokens:             tokens,
		Logger:             logger,
		AuthController:     authController,
		UserController:     userController,
		ProfileController:  profileController,
		PasskeyController:  passkeyController,
		WebAuthnController: webAuthnController,
	}
}

func publicPaths() []string {
	if paths := config.Conf.Application.Server.PublicPaths; len(paths) > 0 {
		return paths
	}
	return middleware.DefaultPublicPaths
}

// NOTE: Start Fiber Server
func (s *Server) Start() *fiber.App {
	// NOTE: Initialize Fiber Server
	app := fiber.New(fiber.Config{AppName: config.Conf.Application.DisplayName})
	middleware.InitValidator()

	rateLimit := config.Conf.Application.RateLimit
	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggingMiddleware(s.Logger))
	app.Use(middleware.GlobalRateLimiter(rateLimit.Max, time.Duration(rateLimit.WindowInSeconds)*time.Second))
	app.Use(middleware.AuthMiddleware(s.Tokens, publicPaths()))

	// NOTE: Define API paths (context path, no version segment)
	api := app.Group(config.Conf.Application.Server.ContextPath)
	s.configureAuthGroup(api)
	s.configureUserGroup(api)
	s.configureProfileGroup(api)
	s.configurePasskeyGroup(api)
	s.configureWebAuthnRoutes(app)
	return app
}

func (s *Server) configureAuthGroup(router fiber.Router) {
	authGroup := router.Group("/auth")
	authGroup.Post("/login",
		middleware.RouteRateLimiter(5, time.Minute),
		middleware.ValidateBody[request.LoginRequest](),
		s.AuthController.Login)
	authGroup.Post("/refresh", s.AuthController.Refresh)
	authGroup.Post("/logout", s.AuthController.Logout)
}

func (s *Server) configureUserGroup(router fiber.Router) {
	userGroup := router.Group("/user")
	userGroup.Post("/sign-up", middleware.ValidateBody[request.SignUpRequest](), s.UserController.SignUp)
	userGroup.Get("/check-email", s.UserController.CheckEmail)
	userGroup.Get("/me", middleware.RequireAuth(), s.UserController.Me)
}

func (s *Server) configureProfileGroup(router fiber.Router) {
	profileGroup := router.Group("/profile", middleware.RequireAuth())
	profileGroup.Get("", s.ProfileController.FetchProfile)
	profileGroup.Put("", middleware.ValidateBody[request.UpdateProfileRequest](), s.ProfileController.UpdateProfile)
	profileGroup.Post("/password",
		middleware.RouteRateLimiter(5, time.Minute),
		middleware.ValidateBody[request.CheckCurrentPasswordRequest](),
		s.ProfileController.CheckCurrentPassword)
	profileGroup.Put("/password", middleware.ValidateBody[request.UpdatePasswordRequest](), s.ProfileController.UpdatePassword)
	profileGroup.Get("/password/revoke_token", s.ProfileController.RevokePasswordChangeToken)
}

func (s *Server) configurePasskeyGroup(router fiber.Router) {
	passkeyGroup := router.Group("/passkey", middleware.RequireAuth())
	passkeyGroup.Get("", s.PasskeyController.List)
	passkeyGroup.Put("", middleware.ValidateBody[request.UpdatePasskeyRequest](), s.PasskeyController.UpdateLabel)
	passkeyGroup.Delete("/:uuid", s.PasskeyController.Delete)
}

// NOTE: ceremony routes live outside the context path
func (s *Server) configureWebAuthnRoutes(app *fiber.App) {
	webAuthnGroup := app.Group("/webauthn")
	webAuthnGroup.Post("/register/options", middleware.RequireAuth(), s.WebAuthnController.RegisterOptions)
	webAuthnGroup.Post("/register", middleware.RequireAuth(), s.WebAuthnController.Register)
	webAuthnGroup.Post("/authenticate/options", s.WebAuthnController.AuthenticateOptions)
	app.Post("/login/webauthn", middleware.RouteRateLimiter(10, time.Minute), s.WebAuthnController.Login)
}
