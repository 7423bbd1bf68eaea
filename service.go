package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"github.com/shin6949/passkey-sample-be/config"
	"github.com/shin6949/passkey-sample-be/controller"
	"github.com/shin6949/passkey-sample-be/repository/command_repository"
	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"github.com/shin6949/passkey-sample-be/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	//DB
	dbConnection *gorm.DB

	//Redis Client
	redisClient   *redis.Client
	closeEmbedded func()

	//WebAuthn Conf
	webAuthn *webauthn.WebAuthn

	signingKeys *config.SigningKeys
	logger      *zap.Logger

	// Repository
	userQuery           query_repository.IUserQueryRepository
	userCommand         command_repository.IUserCommandRepository
	passkeyUserQuery    query_repository.IPasskeyUserQueryRepository
	passkeyUserCommand  command_repository.IPasskeyUserCommandRepository
	passkeyRecordQuery  query_repository.IPasskeyRecordQueryRepository
	passkeyRecordCmd    command_repository.IPasskeyRecordCommandRepository
	revokedTokenQuery   query_repository.IRevokedTokenQueryRepository
	revokedTokenCommand command_repository.IRevokedTokenCommandRepository

	// Service
	eventPublisher  *services.EventPublisher
	revocationStore services.IRevocationStore
	tokenService    services.ITokenService
	redisService    services.IRedisService
	credentialStore services.ICredentialStore
	userEntityStore services.IUserEntityStore
	authService     services.IAuthService
	userService     services.IUserService
	profileService  services.IProfileService
	passkeyService  services.IPasskeyService
	webAuthnService services.IWebAuthnService

	// Controller
	authController     controller.IAuthController
	userController     controller.IUserController
	profileController  controller.IProfileController
	passkeyController  controller.IPasskeyController
	webAuthnController controller.IWebAuthnController

	stopPruner context.CancelFunc
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// NOTE: Service Start
func (s *service) Start() {
	s.logger = config.InitLogger(config.Conf.Application.LogLevel)

	log.Info("Opening database connection...")
	s.dbConnection = config.OpenDatabaseConnection(config.Conf.Application.Datasource.PrimaryURL)
	config.Migrate(s.dbConnection, config.Conf.Application.Datasource.PrimaryURL)

	log.Info("Opening redis connection...")
	s.redisClient = config.ConnectToRedis(config.Conf.Application.Redis.Host)

	s.signingKeys = config.MustLoadSigningKeys()

	log.Info("WebAuthn config")
	s.webAuthn = config.InitWebAuthn()

	// NOTE: Dependency Injections
	s.DependencyInjection()

	// NOTE: Expired revocations are pruned in the background until shutdown
	pruneCtx, cancel := context.WithCancel(context.Background())
	s.stopPruner = cancel
	interval := time.Duration(config.Conf.Application.Security.RevocationPruneIntervalInMin) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	go services.RunPruner(pruneCtx, s.revocationStore, interval)

	// NOTE: Start Fiber server...
	app := NewServer(
		s.tokenService,
		s.logger,
		s.authController,
		s.userController,
		s.profileController,
		s.passkeyController,
		s.webAuthnController,
	).Start()

	log.Info("Server starting..")
	// NOTE: Server start with goroutine
	go func() {
		if err := app.Listen(config.Conf.Application.Server.Port); err != nil {
			log.Fatal("Server failed to start: ", err)
		}
	}()
	// NOTE: Keep OS signals for graceful shutdown
	s.gracefulShutdown(app)
}

// NOTE: Depency Injection Operation
func (s *service) DependencyInjection() {
	security := config.Conf.Application.Security

	// NOTE: Repositories Injections
	s.userQuery = query_repository.NewUserQueryRepository()
	s.userCommand = command_repository.NewUserCommandRepository()
	s.passkeyUserQuery = query_repository.NewPasskeyUserQueryRepository()
	s.passkeyUserCommand = command_repository.NewPasskeyUserCommandRepository()
	s.passkeyRecordQuery = query_repository.NewPasskeyRecordQueryRepository()
	s.passkeyRecordCmd = command_repository.NewPasskeyRecordCommandRepository()
	s.revokedTokenQuery = query_repository.NewRevokedTokenQueryRepository()
	s.revokedTokenCommand = command_repository.NewRevokedTokenCommandRepository()

	// NOTE: Without a redis address revocations are cached in process and ceremony sessions use an embedded redis
	var revocationCache services.IRevocationCache
	sessionClient := s.redisClient
	if s.redisClient != nil {
		revocationCache = services.NewRedisRevocationCache(s.redisClient)
	} else {
		revocationCache = services.NewMemoryRevocationCache()
		sessionClient, s.closeEmbedded = config.EmbeddedRedis()
	}

	// NOTE: Services Injections
	s.eventPublisher = services.NewEventPublisher(
		config.NewSyncProducer(config.Conf.Application.Kafka.Brokers),
		config.Conf.Application.Kafka.AuditTopic,
	)
	s.revocationStore = services.NewRevocationStore(s.dbConnection, revocationCache, s.revokedTokenQuery, s.revokedTokenCommand)
	s.tokenService = services.NewTokenService(
		s.signingKeys,
		security.Issuer,
		millis(security.AccessTokenValidity),
		millis(security.RefreshTokenValidity),
		s.revocationStore,
	)
	s.redisService = services.NewRedisService(sessionClient, config.WebAuthnSessionTTL())
	s.credentialStore = services.NewCredentialStore(s.dbConnection, s.passkeyRecordQuery, s.passkeyRecordCmd)
	s.userEntityStore = services.NewUserEntityStore(s.dbConnection, s.passkeyUserQuery, s.passkeyUserCommand, s.userQuery, s.credentialStore)
	s.authService = services.NewAuthService(s.dbConnection, s.userQuery, s.tokenService, s.eventPublisher)
	s.userService = services.NewUserService(s.dbConnection, s.redisService, s.userCommand, s.userQuery)
	s.profileService = services.NewProfileService(s.dbConnection, s.userQuery, s.userCommand, s.tokenService, s.redisService, s.eventPublisher, millis(security.PasswordChangeTokenValidity))
	s.passkeyService = services.NewPasskeyService(s.userEntityStore, s.credentialStore, s.eventPublisher)
	s.webAuthnService = services.NewWebAuthnService(s.webAuthn, s.dbConnection, s.userQuery, s.redisService, s.userEntityStore, s.credentialStore, s.authService, s.eventPublisher)

	// NOTE: Controllers Injections
	cookies := controller.CookieSettings{
		Secure:            security.SecureCookie,
		RefreshTTL:        millis(security.RefreshTokenValidity),
		PasswordChangeTTL: millis(security.PasswordChangeTokenValidity),
	}
	s.authController = controller.NewAuthController(s.authService, cookies)
	s.userController = controller.NewUserController(s.userService)
	s.profileController = controller.NewProfileController(s.profileService, cookies)
	s.passkeyController = controller.NewPasskeyController(s.passkeyService)
	s.webAuthnController = controller.NewWebAuthnController(s.webAuthnService, cookies)
}

// NOTE: Graceful shutdown operation
func (s *service) gracefulShutdown(app *fiber.App) {

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// NOTE:Server Shutdown when keep signal
	<-sigChan
	log.Info("Shutting down server...")
	// NOTE: Creating context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// NOTE: Shutdown Fiber server
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("error while shutting down app", err)
	}

	s.stopPruner()

	if err := s.eventPublisher.Close(); err != nil {
		log.Error("error while closing kafka producer", err)
	}
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.closeEmbedded != nil {
		s.closeEmbedded()
	}
	_ = s.logger.Sync()

	// NOTE: Shutdown Database connection
	done := make(chan bool)
	go func() {
		config.CloseDatabaseConnection(s.dbConnection)
		done <- true
	}()

	select {
	case <-ctx.Done():
		log.Error("timeout while shutting down database", ctx.Err())
	case <-done:
		log.Info("database is gracefully shutdown")
	}
}
