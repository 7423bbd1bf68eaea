package services

import "errors"

var (
	// ErrInvalidToken covers expired, malformed, forged, wrong-action and revoked tokens alike.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenNotFound       = errors.New("token not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrPasswordMismatch    = errors.New("password and confirmation do not match")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDisabledUser        = errors.New("user is disabled")
	ErrPasskeyNotFound     = errors.New("passkey not found")
	ErrMismatchedOwnership = errors.New("passkey does not belong to the requesting user")
	ErrPasskeySession      = errors.New("passkey ceremony session is missing or expired")
	// ErrAlreadyRevoked is returned by the revocation store when another caller revoked the token first.
	ErrAlreadyRevoked      = errors.New("token already revoked")
)
