package domain

import "time"

// RevokedRefreshToken is keyed by the SHA-256 hex digest of the token, never the token itself.
type RevokedRefreshToken struct {
	TokenHash         string     `gorm:"column:token_hash;primaryKey;size:64" json:"token_hash"`
	OriginalExpiredAt time.Time  `gorm:"column:original_expired_at;not null;index" json:"original_expired_at"`
	CreatedAt         *time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         *time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RevokedRefreshToken) TableName() string {
	return "revoked_refresh_token"
}
