package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/repository/command_repository"
	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"gorm.io/gorm"
)

const userHandleLength = 32

type IUserEntityStore interface {
	FindByID(ctx context.Context, handle []byte) (*domain.PasskeyUserEntity, error)
	FindByUsername(ctx context.Context, email string) (*domain.PasskeyUserEntity, error)
	FindByAppUserID(ctx context.Context, userID string) (*domain.PasskeyUserEntity, error)
	Save(ctx context.Context, entity *domain.PasskeyUserEntity) error
	Delete(ctx context.Context, handle []byte) error
}

type UserEntityStore struct {
	db          *gorm.DB
	query       query_repository.IPasskeyUserQueryRepository
	command     command_repository.IPasskeyUserCommandRepository
	users       query_repository.IUserQueryRepository
	credentials ICredentialStore
}

func NewUserEntityStore(db *gorm.DB, query query_repository.IPasskeyUserQueryRepository, command command_repository.IPasskeyUserCommandRepository, users query_repository.IUserQueryRepository, credentials ICredentialStore) IUserEntityStore {
	return &UserEntityStore{db: db, query: query, command: command, users: users, credentials: credentials}
}

// NewUserHandle returns a random opaque handle for a user that has no passkey mapping yet.
func NewUserHandle() ([]byte, error) {
	handle := make([]byte, userHandleLength)
	if _, err := rand.Read(handle); err != nil {
		return nil, fmt.Errorf("generate user handle: %w", err)
	}
	return handle, nil
}

func (s *UserEntityStore) toEntity(ctx context.Context, mapping *domain.PasskeyUser) (*domain.PasskeyUserEntity, error) {
	handle, err := decodeBytes(mapping.PasskeyUserID)
	if err != nil {
		return nil, fmt.Errorf("decode user handle: %w", err)
	}
	records, err := s.credentials.FindByUserID(ctx, handle)
	if err != nil {
		return nil, err
	}
	return &domain.PasskeyUserEntity{
		ID:          handle,
		Name:        mapping.User.Email,
		DisplayName: mapping.User.Name,
		UserID:      mapping.UserID,
		Credentials: ToWebAuthnCredentials(records),
	}, nil
}

func (s *UserEntityStore) found(ctx context.Context, mapping *domain.PasskeyUser, err error) (*domain.PasskeyUserEntity, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.toEntity(ctx, mapping)
}

func (s *UserEntityStore) FindByID(ctx context.Context, handle []byte) (*domain.PasskeyUserEntity, error) {
	if len(handle) == 0 {
		return nil, nil
	}
	mapping, err := s.query.GetByPasskeyUserID(s.db.WithContext(ctx), encodeBytes(handle))
	return s.found(ctx, mapping, err)
}

func (s *UserEntityStore) FindByUsername(ctx context.Context, email string) (*domain.PasskeyUserEntity, error) {
	mapping, err := s.query.GetByEmail(s.db.WithContext(ctx), email)
	return s.found(ctx, mapping, err)
}

func (s *UserEntityStore) FindByAppUserID(ctx context.Context, userID string) (*domain.PasskeyUserEntity, error) {
	mapping, err := s.query.GetByUserID(s.db.WithContext(ctx), userID)
	return s.found(ctx, mapping, err)
}

// Save links the entity's handle to the application user named by entity.Name.
func (s *UserEntityStore) Save(ctx context.Context, entity *domain.PasskeyUserEntity) error {
	db := s.db.WithContext(ctx)
	user, err := s.users.GetUserByEmail(db, entity.Name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warnf("passkey user entity not saved, no application user for %s", entity.Name)
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if err := s.command.Create(db, &domain.PasskeyUser{PasskeyUserID: encodeBytes(entity.ID), UserID: user.ID}); err != nil {
		return fmt.Errorf("save passkey user: %w", err)
	}
	entity.UserID = user.ID
	return nil
}

// Delete removes only the handle mapping, the application user stays.
func (s *UserEntityStore) Delete(ctx context.Context, handle []byte) error {
	return s.command.DeleteByPasskeyUserID(s.db.WithContext(ctx), encodeBytes(handle))
}
