package domain

import "github.com/go-webauthn/webauthn/webauthn"

// PasskeyUserEntity is the user shape handed to the ceremony engine: an opaque handle,
// the login name (email) and a display name.
type PasskeyUserEntity struct {
	ID          []byte
	Name        string
	DisplayName string
	UserID      string
	Credentials []webauthn.Credential
}

func (u *PasskeyUserEntity) WebAuthnID() []byte {
	return u.ID
}

func (u *PasskeyUserEntity) WebAuthnName() string {
	return u.Name
}

func (u *PasskeyUserEntity) WebAuthnDisplayName() string {
	return u.DisplayName
}

func (u *PasskeyUserEntity) WebAuthnCredentials() []webauthn.Credential {
	return u.Credentials
}
