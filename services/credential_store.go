package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/repository/command_repository"
	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"gorm.io/gorm"
)

// CredentialRecord is a registered credential as the ceremony engine sees it, plus the
// bookkeeping columns the application keeps next to it.
type CredentialRecord struct {
	webauthn.Credential
	UUID           string
	UserHandle     []byte
	CredentialType string
	UVInitialized  bool
	Created        time.Time
	LastUsed       time.Time
	Label          string
}

type ICredentialStore interface {
	FindByCredentialID(ctx context.Context, credentialID []byte) (*CredentialRecord, error)
	FindByUserID(ctx context.Context, userHandle []byte) ([]CredentialRecord, error)
	FindByUUID(ctx context.Context, id string) (*CredentialRecord, error)
	Save(ctx context.Context, record *CredentialRecord) error
	Delete(ctx context.Context, credentialID []byte) error
	UpdateLabel(ctx context.Context, id, label string) error
}

type CredentialStore struct {
	db      *gorm.DB
	query   query_repository.IPasskeyRecordQueryRepository
	command command_repository.IPasskeyRecordCommandRepository
}

func NewCredentialStore(db *gorm.DB, query query_repository.IPasskeyRecordQueryRepository, command command_repository.IPasskeyRecordCommandRepository) ICredentialStore {
	return &CredentialStore{db: db, query: query, command: command}
}

func encodeBytes(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}

func joinTransports(transports []protocol.AuthenticatorTransport) string {
	names := make([]string, 0, len(transports))
	for _, t := range transports {
		names = append(names, string(t))
	}
	return strings.Join(names, ",")
}

func splitTransports(joined string) []protocol.AuthenticatorTransport {
	if joined == "" {
		return []protocol.AuthenticatorTransport{}
	}
	parts := strings.Split(joined, ",")
	transports := make([]protocol.AuthenticatorTransport, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			transports = append(transports, protocol.AuthenticatorTransport(p))
		}
	}
	return transports
}

func toRow(r *CredentialRecord) *domain.PasskeyRecord {
	return &domain.PasskeyRecord{
		CredentialID:              encodeBytes(r.ID),
		UUID:                      r.UUID,
		UserID:                    encodeBytes(r.UserHandle),
		CredentialType:            r.CredentialType,
		PublicKey:                 encodeBytes(r.PublicKey),
		SignatureCount:            int64(r.Authenticator.SignCount),
		UVInitialized:             r.UVInitialized,
		Transports:                joinTransports(r.Transport),
		BackupEligible:            r.Flags.BackupEligible,
		BackupState:               r.Flags.BackupState,
		AttestationObject:         encodeBytes(r.Attestation.Object),
		AttestationClientDataJSON: encodeBytes(r.Attestation.ClientDataJSON),
		AttestationType:           r.AttestationType,
		AAGUID:                    encodeBytes(r.Authenticator.AAGUID),
		Created:                   r.Created.UnixMilli(),
		LastUsed:                  r.LastUsed.UnixMilli(),
		Label:                     r.Label,
	}
}

func fromRow(row *domain.PasskeyRecord) (*CredentialRecord, error) {
	record := &CredentialRecord{
		UUID:           row.UUID,
		CredentialType: row.CredentialType,
		UVInitialized:  row.UVInitialized,
		Created:        time.UnixMilli(row.Created),
		LastUsed:       time.UnixMilli(row.LastUsed),
		Label:          row.Label,
	}
	record.AttestationType = row.AttestationType
	record.Transport = splitTransports(row.Transports)
	record.Flags = webauthn.CredentialFlags{
		UserPresent:    true,
		UserVerified:   row.UVInitialized,
		BackupEligible: row.BackupEligible,
		BackupState:    row.BackupState,
	}
	record.Authenticator.SignCount = uint32(row.SignatureCount)

	columns := []struct {
		name string
		raw  string
		dst  *[]byte
	}{
		{"credential_id", row.CredentialID, &record.ID},
		{"user_id", row.UserID, &record.UserHandle},
		{"public_key", row.PublicKey, &record.PublicKey},
		{"attestation_object", row.AttestationObject, &record.Attestation.Object},
		{"attestation_client_data_json", row.AttestationClientDataJSON, &record.Attestation.ClientDataJSON},
		{"aaguid", row.AAGUID, &record.Authenticator.AAGUID},
	}
	for _, c := range columns {
		decoded, err := decodeBytes(c.raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.name, err)
		}
		*c.dst = decoded
	}
	return record, nil
}

func (s *CredentialStore) FindByCredentialID(ctx context.Context, credentialID []byte) (*CredentialRecord, error) {
	row, err := s.query.GetByCredentialID(s.db.WithContext(ctx), encodeBytes(credentialID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromRow(row)
}

func (s *CredentialStore) FindByUUID(ctx context.Context, id string) (*CredentialRecord, error) {
	row, err := s.query.GetByUUID(s.db.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromRow(row)
}

func (s *CredentialStore) FindByUserID(ctx context.Context, userHandle []byte) ([]CredentialRecord, error) {
	rows, err := s.query.ListByUserID(s.db.WithContext(ctx), encodeBytes(userHandle))
	if err != nil {
		return nil, err
	}
	records := make([]CredentialRecord, 0, len(rows))
	for i := range rows {
		record, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// Save upserts by credential id. The uuid and creation time of an existing row are kept,
// a new row gets a time-ordered uuid.
func (s *CredentialStore) Save(ctx context.Context, record *CredentialRecord) error {
	db := s.db.WithContext(ctx)
	if record.UUID == "" {
		existing, err := s.query.GetByCredentialID(db, encodeBytes(record.ID))
		switch {
		case err == nil:
			record.UUID = existing.UUID
			record.Created = time.UnixMilli(existing.Created)
		case errors.Is(err, gorm.ErrRecordNotFound):
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			record.UUID = id.String()
		default:
			return err
		}
	}
	if record.Created.IsZero() {
		record.Created = time.Now()
	}
	if record.LastUsed.IsZero() {
		record.LastUsed = record.Created
	}
	return s.command.Upsert(db, toRow(record))
}

func (s *CredentialStore) Delete(ctx context.Context, credentialID []byte) error {
	return s.command.DeleteByCredentialID(s.db.WithContext(ctx), encodeBytes(credentialID))
}

func (s *CredentialStore) UpdateLabel(ctx context.Context, id, label string) error {
	return s.command.UpdateLabel(s.db.WithContext(ctx), id, label)
}

func ToWebAuthnCredentials(records []CredentialRecord) []webauthn.Credential {
	credentials := make([]webauthn.Credential, 0, len(records))
	for _, r := range records {
		credentials = append(credentials, r.Credential)
	}
	return credentials
}
