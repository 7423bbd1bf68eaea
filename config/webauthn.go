package config

import (
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

func InitWebAuthn() *webauthn.WebAuthn {
	wa, err := webauthn.New(&webauthn.Config{
		RPDisplayName: Conf.Application.WebAuthn.RpDisplayName,
		RPID:          Conf.Application.WebAuthn.RpID,
		RPOrigins:     Conf.Application.WebAuthn.RpOrigins,
		AuthenticatorSelection: protocol.AuthenticatorSelection{
			ResidentKey:      protocol.ResidentKeyRequirementRequired,
			UserVerification: protocol.VerificationPreferred,
		},
	})

	if err != nil {
		panic(err)
	}
	return wa
}

func WebAuthnSessionTTL() time.Duration {
	if Conf.Application.WebAuthn.SessionTTLInSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(Conf.Application.WebAuthn.SessionTTLInSeconds) * time.Second
}
