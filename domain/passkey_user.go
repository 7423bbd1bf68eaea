package domain

// PasskeyUser maps one application user to the opaque user handle used in WebAuthn ceremonies.
type PasskeyUser struct {
	PasskeyUserID string `gorm:"column:passkey_user_id;primaryKey;size:255" json:"passkey_user_id"`
	UserID        string `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_user_id" json:"user_id"`
	User          User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PasskeyUser) TableName() string {
	return "passkey_users"
}
