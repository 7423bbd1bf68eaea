package query_repository

import (
	"github.com/shin6949/passkey-sample-be/domain"

	"gorm.io/gorm"
)

type IPasskeyRecordQueryRepository interface {
	GetByCredentialID(db *gorm.DB, credentialID string) (*domain.PasskeyRecord, error)
	GetByUUID(db *gorm.DB, uuid string) (*domain.PasskeyRecord, error)
	ListByUserID(db *gorm.DB, passkeyUserID string) ([]domain.PasskeyRecord, error)
}

type PasskeyRecordQueryRepository struct{}

func NewPasskeyRecordQueryRepository() IPasskeyRecordQueryRepository {
	return &PasskeyRecordQueryRepository{}
}

func (p *PasskeyRecordQueryRepository) GetByCredentialID(db *gorm.DB, credentialID string) (*domain.PasskeyRecord, error) {
	var record domain.PasskeyRecord
	if err := db.Where("credential_id = ?", credentialID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (p *PasskeyRecordQueryRepository) GetByUUID(db *gorm.DB, uuid string) (*domain.PasskeyRecord, error) {
	var record domain.PasskeyRecord
	if err := db.Where("uuid = ?", uuid).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (p *PasskeyRecordQueryRepository) ListByUserID(db *gorm.DB, passkeyUserID string) ([]domain.PasskeyRecord, error) {
	records := make([]domain.PasskeyRecord, 0)
	err := db.Where("user_id = ?", passkeyUserID).Order("created").Find(&records).Error
	return records, err
}
