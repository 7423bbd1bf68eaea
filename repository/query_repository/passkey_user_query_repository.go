package query_repository

import (
	"github.com/shin6949/passkey-sample-be/domain"

	"gorm.io/gorm"
)

type IPasskeyUserQueryRepository interface {
	GetByPasskeyUserID(db *gorm.DB, passkeyUserID string) (*domain.PasskeyUser, error)
	GetByUserID(db *gorm.DB, userID string) (*domain.PasskeyUser, error)
	GetByEmail(db *gorm.DB, email string) (*domain.PasskeyUser, error)
}

type PasskeyUserQueryRepository struct{}

func NewPasskeyUserQueryRepository() IPasskeyUserQueryRepository {
	return &PasskeyUserQueryRepository{}
}

// NOTE: every lookup preloads the application user, the entity adapter needs its email and name
func (p *PasskeyUserQueryRepository) GetByPasskeyUserID(db *gorm.DB, passkeyUserID string) (*domain.PasskeyUser, error) {
	var mapping domain.PasskeyUser
	if err := db.Preload("User").Where("passkey_user_id = ?", passkeyUserID).First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (p *PasskeyUserQueryRepository) GetByUserID(db *gorm.DB, userID string) (*domain.PasskeyUser, error) {
	var mapping domain.PasskeyUser
	if err := db.Preload("User").Where("user_id = ?", userID).First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (p *PasskeyUserQueryRepository) GetByEmail(db *gorm.DB, email string) (*domain.PasskeyUser, error) {
	var mapping domain.PasskeyUser
	err := db.Preload("User").
		Joins("JOIN users ON users.uuid = passkey_users.user_id").
		Where("users.email = ?", email).
		First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}
