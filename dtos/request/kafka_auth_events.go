package request

import "time"

type AuthEventType string

const (
	EventLogin           AuthEventType = "LOGIN"
	EventPasskeyLogin    AuthEventType = "PASSKEY_LOGIN"
	EventTokenRefreshed  AuthEventType = "TOKEN_REFRESHED"
	EventLogout          AuthEventType = "LOGOUT"
	EventPasswordChanged AuthEventType = "PASSWORD_CHANGED"
	EventPasskeyAdded    AuthEventType = "PASSKEY_REGISTERED"
	EventPasskeyDeleted  AuthEventType = "PASSKEY_DELETED"
)

type AuthEvent struct {
	Type       AuthEventType `json:"type"`
	UserID     string        `json:"user_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}
