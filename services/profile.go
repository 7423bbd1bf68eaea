package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/dtos/response"
	"github.com/shin6949/passkey-sample-be/repository/command_repository"
	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"github.com/shin6949/passkey-sample-be/util"
	"gorm.io/gorm"
)

const defaultPasswordChangeTokenTTL = 10 * time.Minute

type IProfileService interface {
	CheckCurrentPassword(ctx context.Context, userID, inputPassword string) (*response.CheckCurrentPasswordResponse, error)
	UpdatePassword(ctx context.Context, userID, tempToken string, req *request.UpdatePasswordRequest) error
	FetchProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req *request.UpdateProfileRequest) (*domain.User, error)
}

type ProfileService struct {
	db       *gorm.DB
	query    query_repository.IUserQueryRepository
	command  command_repository.IUserCommandRepository
	tokens   ITokenService
	redis    IRedisService
	events   IEventPublisher
	tokenTTL time.Duration
}

func NewProfileService(db *gorm.DB, query query_repository.IUserQueryRepository, command command_repository.IUserCommandRepository, tokens ITokenService, redis IRedisService, events IEventPublisher, tokenTTL time.Duration) IProfileService {
	if tokenTTL <= 0 {
		tokenTTL = defaultPasswordChangeTokenTTL
	}
	return &ProfileService{db: db, query: query, command: command, tokens: tokens, redis: redis, events: events, tokenTTL: tokenTTL}
}

func (s *ProfileService) findUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.query.GetByID(s.db.WithContext(ctx), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Infof("user %s not found", userID)
		return nil, ErrUserNotFound
	}
	return user, err
}

// CheckCurrentPassword issues an UPDATE_PASSWORD authorization token when the password matches.
func (s *ProfileService) CheckCurrentPassword(ctx context.Context, userID, inputPassword string) (*response.CheckCurrentPasswordResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &response.CheckCurrentPasswordResponse{IsMatch: util.VerifyPassword(inputPassword, user.Password)}
	if !resp.IsMatch {
		return resp, nil
	}
	resp.AuthorizationToken, err = s.tokens.IssueTempAuthorizationToken(user.ID, s.tokenTTL, ActionUpdatePassword)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ProfileService) UpdatePassword(ctx context.Context, userID, tempToken string, req *request.UpdatePasswordRequest) error {
	if err := s.tokens.Validate(ctx, tempToken, KindRefresh); err != nil {
		log.Infof("invalid password change token for user %s", userID)
		return err
	}
	if req.NewPassword != req.NewPasswordConfirm {
		return ErrPasswordMismatch
	}
	subject, err := s.tokens.SubjectOfTempToken(tempToken, ActionUpdatePassword)
	if err != nil {
		return err
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if subject != user.ID {
		log.Infof("password change token subject does not match user %s", userID)
		return ErrInvalidToken
	}

	hashed, err := util.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	// NOTE: the token is consumed before the write so two concurrent uses cannot both change the password
	if _, err := s.tokens.Revoke(ctx, tempToken); err != nil {
		return err
	}
	if err := s.command.UpdatePassword(s.db.WithContext(ctx), user.ID, hashed); err != nil {
		return err
	}
	log.Infof("password updated for user %s", userID)
	s.events.Publish(ctx, request.EventPasswordChanged, user.ID)
	return nil
}

func (s *ProfileService) FetchProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.findUser(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req *request.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)
	previous := user.Email
	db := s.db.WithContext(ctx)
	if email != previous {
		exists, err := s.query.ExistsByEmail(db, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
	}
	user.Email = email
	user.Name = strings.TrimSpace(req.Name)
	if err := s.command.Update(db, user); err != nil {
		return nil, err
	}
	if email != previous {
		if err := s.redis.ForgetEmail(ctx, previous); err != nil {
			log.Warnf("failed to clear email cache for %s: %v", previous, err)
		}
	}
	return user, nil
}
