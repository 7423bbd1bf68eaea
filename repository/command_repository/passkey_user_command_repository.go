package command_repository

import (
	"github.com/shin6949/passkey-sample-be/domain"

	"gorm.io/gorm"
)

type IPasskeyUserCommandRepository interface {
	Create(db *gorm.DB, mapping *domain.PasskeyUser) error
	DeleteByPasskeyUserID(db *gorm.DB, passkeyUserID string) error
}

type PasskeyUserCommandRepository struct{}

func NewPasskeyUserCommandRepository() IPasskeyUserCommandRepository {
	return &PasskeyUserCommandRepository{}
}

func (p *PasskeyUserCommandRepository) Create(db *gorm.DB, mapping *domain.PasskeyUser) error {
	return db.Omit("User").Create(mapping).Error
}

func (p *PasskeyUserCommandRepository) DeleteByPasskeyUserID(db *gorm.DB, passkeyUserID string) error {
	return db.Where("passkey_user_id = ?", passkeyUserID).Delete(&domain.PasskeyUser{}).Error
}
