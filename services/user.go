package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/repository/command_repository"
	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"github.com/shin6949/passkey-sample-be/util"
	"gorm.io/gorm"
)

type IUserService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest) (*domain.User, error)
	IsDuplicateEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type UserService struct {
	db      *gorm.DB
	redis   IRedisService
	command command_repository.IUserCommandRepository
	query   query_repository.IUserQueryRepository
}

func NewUserService(db *gorm.DB, redis IRedisService, command command_repository.IUserCommandRepository, query query_repository.IUserQueryRepository) IUserService {
	return &UserService{db: db, redis: redis, command: command, query: query}
}

func (u *UserService) SignUp(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	email := strings.TrimSpace(req.Email)
	duplicate, err := u.IsDuplicateEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, ErrDuplicateEmail
	}
	if req.Password != req.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:       id.String(),
		Email:    email,
		Password: hashed,
		Name:     strings.TrimSpace(req.Name),
		Role:     domain.RoleUser,
		Enabled:  true,
	}
	if _, err := u.command.Create(u.db.WithContext(ctx), user); err != nil {
		return nil, err
	}
	log.Infof("user %s signed up", user.ID)
	return user, nil
}

// IsDuplicateEmail consults the redis cache first. Only positive answers are cached.
func (u *UserService) IsDuplicateEmail(ctx context.Context, email string) (bool, error) {
	if known, err := u.redis.IsEmailKnown(ctx, email); err != nil {
		log.Warnf("email cache lookup failed: %v", err)
	} else if known {
		return true, nil
	}
	exists, err := u.query.ExistsByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		return false, err
	}
	if exists {
		if err := u.redis.MarkEmailExists(ctx, email); err != nil {
			log.Warnf("failed to cache email check: %v", err)
		}
	}
	return exists, nil
}

func (u *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.query.GetByID(u.db.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}
