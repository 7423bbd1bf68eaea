package domain

// PasskeyRecord is the at-rest form of a registered credential. Binary values are
// base64url (unpadded) strings and transports are comma separated.
type PasskeyRecord struct {
	CredentialID              string `gorm:"column:credential_id;primaryKey;size:255" json:"credential_id"`
	UUID                      string `gorm:"column:uuid;size:36;not null;uniqueIndex:idx_passkey_records_uuid" json:"uuid"`
	UserID                    string `gorm:"column:user_id;size:255;not null;index:idx_passkey_records_user_id" json:"user_id"`
	CredentialType            string `gorm:"column:credential_type;size:32" json:"credential_type"`
	PublicKey                 string `gorm:"column:public_key;type:text" json:"public_key"`
	SignatureCount            int64  `gorm:"column:signature_count;not null;default:0" json:"signature_count"`
	UVInitialized             bool   `gorm:"column:uv_initialized;not null;default:false" json:"uv_initialized"`
	Transports                string `gorm:"column:transports;size:255" json:"transports"`
	BackupEligible            bool   `gorm:"column:backup_eligible;not null;default:false" json:"backup_eligible"`
	BackupState               bool   `gorm:"column:backup_state;not null;default:false" json:"backup_state"`
	AttestationObject         string `gorm:"column:attestation_object;type:text" json:"attestation_object"`
	AttestationClientDataJSON string `gorm:"column:attestation_client_data_json;type:text" json:"attestation_client_data_json"`
	AttestationType           string `gorm:"column:attestation_type;size:64" json:"attestation_type"`
	AAGUID                    string `gorm:"column:aaguid;size:64" json:"aaguid"`
	Created                   int64  `gorm:"column:created" json:"created"`
	LastUsed                  int64  `gorm:"column:last_used" json:"last_used"`
	Label                     string `gorm:"column:label;size:255" json:"label"`
}

func (PasskeyRecord) TableName() string {
	return "passkey_records"
}
