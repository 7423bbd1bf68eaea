package query_repository

import (
	"github.com/shin6949/passkey-sample-be/domain"

	"gorm.io/gorm"
)

type IUserQueryRepository interface {
	GetByID(db *gorm.DB, id string) (*domain.User, error)
	GetUserByEmail(db *gorm.DB, email string) (*domain.User, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)
}

type UserQueryRepository struct{}

func NewUserQueryRepository() IUserQueryRepository {
	return &UserQueryRepository{}
}

func (u *UserQueryRepository) GetByID(db *gorm.DB, id string) (*domain.User, error) {
	var user domain.User
	err := db.Where("uuid = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserQueryRepository) GetUserByEmail(db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserQueryRepository) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
