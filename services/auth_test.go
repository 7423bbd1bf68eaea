package services

import (
	"context"
	"sync"
	"testing"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/google/uuid"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *fixture) IAuthService {
	return NewAuthService(f.db, f.userQuery, f.tokens, f.events)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "alice@example.com", "Secret123!")
	auth := newAuthService(f)

	tokens, err := auth.Login(ctx, "alice@example.com", "Secret123!")
	require.NoError(t, err)
	require.NotNil(t, tokens)

	subject, err := f.tokens.SubjectOf(tokens.AccessToken, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
	assert.NoError(t, f.tokens.Validate(ctx, tokens.RefreshToken, KindRefresh))
	assert.Equal(t, []request.AuthEventType{request.EventLogin}, f.events.recorded())
}

func TestAuthService_LoginRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "alice@example.com", "Secret123!")
	disabled := f.seedUser(t, "bob@example.com", "Secret123!")
	require.NoError(t, f.db.Model(&domain.User{}).Where("uuid = ?", disabled.ID).Update("enabled", false).Error)
	auth := newAuthService(f)

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"unknown email", "nobody@example.com", "Secret123!", ErrInvalidCredentials},
		{"wrong password", "alice@example.com", "Wrong123!", ErrInvalidCredentials},
		{"disabled user", "bob@example.com", "Secret123!", ErrDisabledUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := auth.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, tokens)
		})
	}
	assert.Empty(t, f.events.recorded())
}

func TestAuthService_RefreshRotates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "alice@example.com", "Secret123!")
	auth := newAuthService(f)

	first, err := auth.Login(ctx, "alice@example.com", "Secret123!")
	require.NoError(t, err)

	second, err := auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "the rotated token cannot be replayed")

	_, err = auth.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestAuthService_ConcurrentRefreshHasOneWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "alice@example.com", "Secret123!")
	auth := newAuthService(f)

	first, err := auth.Login(ctx, "alice@example.com", "Secret123!")
	require.NoError(t, err)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = auth.Refresh(ctx, first.RefreshToken)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
	assert.Equal(t, 1, wins, "a refresh token rotates exactly once")
}

func TestAuthService_RefreshRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.seedUser(t, "alice@example.com", "Secret123!")
	auth := newAuthService(f)

	pair, err := f.tokens.IssueTokenPair(PrincipalOf(user))
	require.NoError(t, err)
	_, err = auth.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	ghost, err := f.tokens.IssueRefreshToken(Principal{ID: "ghost"})
	require.NoError(t, err)
	_, err = auth.Refresh(ctx, ghost)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, f.db.Model(&domain.User{}).Where("uuid = ?", user.ID).Update("enabled", false).Error)
	_, err = auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrDisabledUser)

	revoked, err := f.revocations.IsRevoked(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.False(t, revoked, "a disabled user's token is left alone")
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "alice@example.com", "Secret123!")
	auth := newAuthService(f)

	assert.ErrorIs(t, auth.Logout(ctx, ""), ErrTokenNotFound)

	tokens, err := auth.Login(ctx, "alice@example.com", "Secret123!")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, tokens.RefreshToken))

	_, err = auth.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, auth.Logout(ctx, tokens.RefreshToken), ErrInvalidToken)

	assert.Equal(t, []request.AuthEventType{request.EventLogin, request.EventLogout}, f.events.recorded())
}

func TestAuthService_LoginByPasskey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "alice@example.com", "Secret123!")
	auth := newAuthService(f)

	tokens, err := auth.LoginByPasskey(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	_, err = auth.LoginByPasskey(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, []request.AuthEventType{request.EventPasskeyLogin}, f.events.recorded())
}

func TestAuthService_LogoutThenLoginAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id, err := uuid.NewV7()
	require.NoError(t, err)
	user := f.seedUserWithID(t, id.String(), "alice@example.com", "Secret123!")
	auth := newAuthService(f)

	entities, credentials := newEntityStore(f)
	handle, err := NewUserHandle()
	require.NoError(t, err)
	require.NoError(t, entities.Save(ctx, &domain.PasskeyUserEntity{ID: handle, Name: user.Email, DisplayName: user.Name}))
	record := sampleRecord("c1", handle)
	record.Transport = []protocol.AuthenticatorTransport{protocol.Internal}
	require.NoError(t, credentials.Save(ctx, record))

	stored, err := credentials.FindByCredentialID(ctx, []byte("c1"))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []protocol.AuthenticatorTransport{protocol.Internal}, stored.Transport)

	first, err := auth.Login(ctx, "alice@example.com", "Secret123!")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, first.RefreshToken))
	assert.ErrorIs(t, f.tokens.Validate(ctx, first.RefreshToken, KindRefresh), ErrInvalidToken)

	second, err := auth.Login(ctx, "alice@example.com", "Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NoError(t, f.tokens.Validate(ctx, second.AccessToken, KindAccess))
	assert.NoError(t, f.tokens.Validate(ctx, second.RefreshToken, KindRefresh))

	subject, err := f.tokens.SubjectOf(second.RefreshToken, KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}
