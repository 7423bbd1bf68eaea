package services

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/dtos/response"
	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"github.com/shin6949/passkey-sample-be/util"
	"gorm.io/gorm"
)

type IAuthService interface {
	Login(ctx context.Context, email, password string) (*response.Tokens, error)
	LoginByPasskey(ctx context.Context, email string) (*response.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*response.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthService struct {
	db     *gorm.DB
	query  query_repository.IUserQueryRepository
	tokens ITokenService
	events IEventPublisher
}

func NewAuthService(db *gorm.DB, query query_repository.IUserQueryRepository, tokens ITokenService, events IEventPublisher) IAuthService {
	return &AuthService{db: db, query: query, tokens: tokens, events: events}
}

func (s *AuthService) issue(ctx context.Context, user *domain.User, event request.AuthEventType) (*response.Tokens, error) {
	if !user.Enabled {
		return nil, ErrDisabledUser
	}
	tokens, err := s.tokens.IssueTokenPair(PrincipalOf(user))
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, event, user.ID)
	return tokens, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*response.Tokens, error) {
	user, err := s.query.GetUserByEmail(s.db.WithContext(ctx), email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Infof("login rejected, unknown email %s", email)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !util.VerifyPassword(password, user.Password) {
		log.Infof("login rejected, password mismatch for %s", email)
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, user, request.EventLogin)
}

// LoginByPasskey mints tokens for a user whose passkey assertion was already verified.
func (s *AuthService) LoginByPasskey(ctx context.Context, email string) (*response.Tokens, error) {
	user, err := s.query.GetUserByEmail(s.db.WithContext(ctx), email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user, request.EventPasskeyLogin)
}

// Refresh rotates the pair. The presented refresh token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*response.Tokens, error) {
	if err := s.tokens.Validate(ctx, refreshToken, KindRefresh); err != nil {
		return nil, err
	}
	userID, err := s.tokens.SubjectOf(refreshToken, KindRefresh)
	if err != nil {
		return nil, err
	}
	user, err := s.query.GetByID(s.db.WithContext(ctx), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		return nil, ErrDisabledUser
	}
	if _, err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issue(ctx, user, request.EventTokenRefreshed)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrTokenNotFound
	}
	userID, err := s.tokens.SubjectOf(refreshToken, KindRefresh)
	if err != nil {
		return err
	}
	if _, err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return err
	}
	log.Info("refresh token revoked on logout")
	s.events.Publish(ctx, request.EventLogout, userID)
	return nil
}
