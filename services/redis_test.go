package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisService_Sessions(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedisClient(t)
	sessions := NewRedisService(rdb, 5*time.Minute)

	data := &webauthn.SessionData{Challenge: "challenge-1", UserID: []byte("handle")}
	require.NoError(t, sessions.StoreRegistrationSession(ctx, "user-1", data))
	assert.Equal(t, 5*time.Minute, mr.TTL(registrationSessionKey+"user-1"))

	got, err := sessions.GetRegistrationSession(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "challenge-1", got.Challenge)
	assert.Equal(t, []byte("handle"), got.UserID)

	_, err = sessions.GetLoginSession(ctx, "user-1")
	assert.ErrorIs(t, err, ErrPasskeySession, "registration and login sessions do not share keys")

	require.NoError(t, sessions.DeleteRegistrationSession(ctx, "user-1"))
	_, err = sessions.GetRegistrationSession(ctx, "user-1")
	assert.ErrorIs(t, err, ErrPasskeySession)
}

func TestRedisService_LoginSessionExpires(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedisClient(t)
	sessions := NewRedisService(rdb, time.Minute)

	require.NoError(t, sessions.StoreLoginSession(ctx, "session-1", &webauthn.SessionData{Challenge: "c"}))
	_, err := sessions.GetLoginSession(ctx, "session-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = sessions.GetLoginSession(ctx, "session-1")
	assert.ErrorIs(t, err, ErrPasskeySession)
}
