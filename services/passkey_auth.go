package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/gofiber/fiber/v2/log"
	"github.com/hashicorp/go-uuid"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/dtos/response"
	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"gorm.io/gorm"
)

const defaultPasskeyLabel = "Passkey"

// PasskeyProvider is the part of *webauthn.WebAuthn the ceremonies use.
type PasskeyProvider interface {
	BeginRegistration(user webauthn.User, opts ...webauthn.RegistrationOption) (*protocol.CredentialCreation, *webauthn.SessionData, error)
	CreateCredential(user webauthn.User, session webauthn.SessionData, parsedResponse *protocol.ParsedCredentialCreationData) (*webauthn.Credential, error)
	BeginDiscoverableLogin(opts ...webauthn.LoginOption) (*protocol.CredentialAssertion, *webauthn.SessionData, error)
	ValidatePasskeyLogin(handler webauthn.DiscoverableUserHandler, session webauthn.SessionData, parsedResponse *protocol.ParsedCredentialAssertionData) (webauthn.User, *webauthn.Credential, error)
}

type CeremonyParser interface {
	ParseCreation(r *http.Request) (*protocol.ParsedCredentialCreationData, error)
	ParseAssertion(r *http.Request) (*protocol.ParsedCredentialAssertionData, error)
}

type httpCeremonyParser struct{}

func (httpCeremonyParser) ParseCreation(r *http.Request) (*protocol.ParsedCredentialCreationData, error) {
	return protocol.ParseCredentialCreationResponse(r)
}

func (httpCeremonyParser) ParseAssertion(r *http.Request) (*protocol.ParsedCredentialAssertionData, error) {
	return protocol.ParseCredentialRequestResponse(r)
}

type IWebAuthnService interface {
	RegisterStart(ctx context.Context, userID string) (*protocol.CredentialCreation, error)
	RegisterFinish(ctx context.Context, userID, label string, r *http.Request) error
	LoginStart(ctx context.Context) (*response.PasskeyLoginOptions, error)
	LoginFinish(ctx context.Context, sessionID string, r *http.Request) (*response.Tokens, error)
}

type WebAuthnService struct {
	db          *gorm.DB
	users       query_repository.IUserQueryRepository
	wa          PasskeyProvider
	parser      CeremonyParser
	redis       IRedisService
	entities    IUserEntityStore
	credentials ICredentialStore
	auth        IAuthService
	events      IEventPublisher
	now         func() time.Time
}

func NewWebAuthnService(wa PasskeyProvider, db *gorm.DB, users query_repository.IUserQueryRepository, redis IRedisService, entities IUserEntityStore, credentials ICredentialStore, auth IAuthService, events IEventPublisher) *WebAuthnService {
	return &WebAuthnService{
		db:          db,
		users:       users,
		wa:          wa,
		parser:      httpCeremonyParser{},
		redis:       redis,
		entities:    entities,
		credentials: credentials,
		auth:        auth,
		events:      events,
		now:         time.Now,
	}
}

// entityFor returns the user's passkey entity, creating the handle mapping on first use.
func (s *WebAuthnService) entityFor(ctx context.Context, user *domain.User) (*domain.PasskeyUserEntity, error) {
	entity, err := s.entities.FindByUsername(ctx, user.Email)
	if err != nil || entity != nil {
		return entity, err
	}
	handle, err := NewUserHandle()
	if err != nil {
		return nil, err
	}
	entity = &domain.PasskeyUserEntity{
		ID:          handle,
		Name:        user.Email,
		DisplayName: user.Name,
		UserID:      user.ID,
		Credentials: []webauthn.Credential{},
	}
	if err := s.entities.Save(ctx, entity); err != nil {
		return nil, err
	}
	log.Infof("created passkey user handle for user %s", user.ID)
	return entity, nil
}

func (s *WebAuthnService) appUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(s.db.WithContext(ctx), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *WebAuthnService) RegisterStart(ctx context.Context, userID string) (*protocol.CredentialCreation, error) {
	user, err := s.appUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	entity, err := s.entityFor(ctx, user)
	if err != nil {
		return nil, err
	}

	options := []webauthn.RegistrationOption{
		webauthn.WithResidentKeyRequirement(protocol.ResidentKeyRequirementRequired),
	}
	if len(entity.Credentials) > 0 {
		options = append(options, webauthn.WithExclusions(webauthn.Credentials(entity.Credentials).CredentialDescriptors()))
	}

	creation, sessionData, err := s.wa.BeginRegistration(entity, options...)
	if err != nil {
		return nil, err
	}
	if err := s.redis.StoreRegistrationSession(ctx, user.ID, sessionData); err != nil {
		return nil, err
	}
	return creation, nil
}

func (s *WebAuthnService) RegisterFinish(ctx context.Context, userID, label string, r *http.Request) error {
	user, err := s.appUser(ctx, userID)
	if err != nil {
		return err
	}
	entity, err := s.entities.FindByUsername(ctx, user.Email)
	if err != nil {
		return err
	}
	if entity == nil {
		return ErrPasskeySession
	}
	sessionData, err := s.redis.GetRegistrationSession(ctx, user.ID)
	if err != nil {
		return err
	}

	parsed, err := s.parser.ParseCreation(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	credential, err := s.wa.CreateCredential(entity, *sessionData, parsed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	if label == "" {
		label = defaultPasskeyLabel
	}
	now := s.now()
	record := &CredentialRecord{
		Credential:     *credential,
		UserHandle:     entity.ID,
		CredentialType: string(protocol.PublicKeyCredentialType),
		UVInitialized:  credential.Flags.UserVerified,
		Created:        now,
		LastUsed:       now,
		Label:          label,
	}
	if err := s.credentials.Save(ctx, record); err != nil {
		return err
	}
	if err := s.redis.DeleteRegistrationSession(ctx, user.ID); err != nil {
		log.Warnf("failed to delete registration session: %v", err)
	}
	s.events.Publish(ctx, request.EventPasskeyAdded, user.ID)
	return nil
}

func (s *WebAuthnService) LoginStart(ctx context.Context) (*response.PasskeyLoginOptions, error) {
	sessionID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}
	assertion, sessionData, err := s.wa.BeginDiscoverableLogin()
	if err != nil {
		return nil, err
	}
	if err := s.redis.StoreLoginSession(ctx, sessionID, sessionData); err != nil {
		return nil, err
	}
	return &response.PasskeyLoginOptions{SessionID: sessionID, Options: assertion}, nil
}

// userHandler resolves the user handle sent by the authenticator to a ceremony user.
func (s *WebAuthnService) userHandler(ctx context.Context) webauthn.DiscoverableUserHandler {
	return func(_, userHandle []byte) (webauthn.User, error) {
		entity, err := s.entities.FindByID(ctx, userHandle)
		if err != nil {
			return nil, err
		}
		if entity == nil {
			return nil, ErrUserNotFound
		}
		return entity, nil
	}
}

func (s *WebAuthnService) LoginFinish(ctx context.Context, sessionID string, r *http.Request) (*response.Tokens, error) {
	sessionData, err := s.redis.GetLoginSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	parsed, err := s.parser.ParseAssertion(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	validated, credential, err := s.wa.ValidatePasskeyLogin(s.userHandler(ctx), *sessionData, parsed)
	if err != nil {
		log.Infof("passkey assertion rejected: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	entity, ok := validated.(*domain.PasskeyUserEntity)
	if !ok {
		return nil, fmt.Errorf("unexpected ceremony user type %T", validated)
	}

	record, err := s.credentials.FindByCredentialID(ctx, credential.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrPasskeyNotFound
	}
	record.Authenticator.SignCount = credential.Authenticator.SignCount
	record.Authenticator.CloneWarning = credential.Authenticator.CloneWarning
	record.Flags = credential.Flags
	record.UVInitialized = record.UVInitialized || credential.Flags.UserVerified
	record.LastUsed = s.now()
	if err := s.credentials.Save(ctx, record); err != nil {
		return nil, err
	}

	if err := s.redis.DeleteLoginSession(ctx, sessionID); err != nil {
		log.Warnf("failed to delete login session: %v", err)
	}
	return s.auth.LoginByPasskey(ctx, entity.Name)
}
