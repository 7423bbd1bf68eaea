package query_repository

import (
	"github.com/shin6949/passkey-sample-be/domain"

	"gorm.io/gorm"
)

type IRevokedTokenQueryRepository interface {
	GetByTokenHash(db *gorm.DB, tokenHash string) (*domain.RevokedRefreshToken, error)
}

type RevokedTokenQueryRepository struct{}

func NewRevokedTokenQueryRepository() IRevokedTokenQueryRepository {
	return &RevokedTokenQueryRepository{}
}

func (r *RevokedTokenQueryRepository) GetByTokenHash(db *gorm.DB, tokenHash string) (*domain.RevokedRefreshToken, error) {
	var revoked domain.RevokedRefreshToken
	if err := db.Where("token_hash = ?", tokenHash).First(&revoked).Error; err != nil {
		return nil, err
	}
	return &revoked, nil
}
