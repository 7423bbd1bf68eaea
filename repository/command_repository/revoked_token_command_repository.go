package command_repository

import (
	"time"

	"github.com/shin6949/passkey-sample-be/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IRevokedTokenCommandRepository interface {
	Save(db *gorm.DB, revoked *domain.RevokedRefreshToken) (bool, error)
	DeleteExpiredBefore(db *gorm.DB, cutoff time.Time) (int64, error)
}

type RevokedTokenCommandRepository struct{}

func NewRevokedTokenCommandRepository() IRevokedTokenCommandRepository {
	return &RevokedTokenCommandRepository{}
}

// Save reports whether this call inserted the row.
// NOTE: a conflicting insert keeps the existing row and reports false
func (r *RevokedTokenCommandRepository) Save(db *gorm.DB, revoked *domain.RevokedRefreshToken) (bool, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_hash"}},
		DoNothing: true,
	}).Create(revoked)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *RevokedTokenCommandRepository) DeleteExpiredBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("original_expired_at < ?", cutoff).Delete(&domain.RevokedRefreshToken{})
	return result.RowsAffected, result.Error
}
