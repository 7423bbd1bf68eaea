package command_repository

import (
	"github.com/shin6949/passkey-sample-be/domain"

	"gorm.io/gorm"
)

type IUserCommandRepository interface {
	Create(db *gorm.DB, entity *domain.User) (*domain.User, error)
	Update(db *gorm.DB, entity *domain.User) error
	UpdatePassword(db *gorm.DB, userID, hashedPassword string) error
}

type UserCommandRepository struct{}

func NewUserCommandRepository() IUserCommandRepository {
	return &UserCommandRepository{}
}

func (u *UserCommandRepository) Create(db *gorm.DB, entity *domain.User) (*domain.User, error) {
	return entity, db.Create(entity).Error
}

func (u *UserCommandRepository) Update(db *gorm.DB, entity *domain.User) error {
	return db.Save(entity).Error
}

func (u *UserCommandRepository) UpdatePassword(db *gorm.DB, userID, hashedPassword string) error {
	result := db.Model(&domain.User{}).
		Where("uuid = ?", userID).
		Update("password", hashedPassword)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
