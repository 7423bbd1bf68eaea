package command_repository

import (
	"github.com/shin6949/passkey-sample-be/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IPasskeyRecordCommandRepository interface {
	Upsert(db *gorm.DB, record *domain.PasskeyRecord) error
	DeleteByCredentialID(db *gorm.DB, credentialID string) error
	UpdateLabel(db *gorm.DB, uuid, label string) error
}

type PasskeyRecordCommandRepository struct{}

func NewPasskeyRecordCommandRepository() IPasskeyRecordCommandRepository {
	return &PasskeyRecordCommandRepository{}
}

// Upsert keys on credential_id so a retried save overwrites instead of duplicating.
func (p *PasskeyRecordCommandRepository) Upsert(db *gorm.DB, record *domain.PasskeyRecord) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "credential_id"}},
		UpdateAll: true,
	}).Create(record).Error
}

func (p *PasskeyRecordCommandRepository) DeleteByCredentialID(db *gorm.DB, credentialID string) error {
	return db.Where("credential_id = ?", credentialID).Delete(&domain.PasskeyRecord{}).Error
}

func (p *PasskeyRecordCommandRepository) UpdateLabel(db *gorm.DB, uuid, label string) error {
	return db.Model(&domain.PasskeyRecord{}).
		Where("uuid = ?", uuid).
		Update("label", label).Error
}
