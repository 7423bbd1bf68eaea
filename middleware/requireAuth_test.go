package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shin6949/passkey-sample-be/config"
	"github.com/shin6949/passkey-sample-be/dtos/response"
	"github.com/shin6949/passkey-sample-be/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokens(t *testing.T) *services.TokenService {
	t.Helper()
	pair := func() *config.KeyPair {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		return &config.KeyPair{Private: k, Public: &k.PublicKey}
	}
	keys := &config.SigningKeys{Access: pair(), Refresh: pair()}
	// access tokens never consult the revocation store
	return services.NewTokenService(keys, "middleware-test", time.Minute, time.Hour, nil)
}

func newAuthApp(tokens services.ITokenService) *fiber.App {
	app := fiber.New()
	app.Use(AuthMiddleware(tokens, DefaultPublicPaths))
	whoami := func(c *fiber.Ctx) error {
		return c.SendString(CurrentUserID(c))
	}
	app.Get("/api/profile", whoami)
	app.Get("/api/user/check-email", whoami)
	app.Get("/api/user/me", RequireAuth(), whoami)
	return app
}

func call(t *testing.T, app *fiber.App, path, bearer string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	tokens := newTokens(t)
	app := newAuthApp(tokens)
	access, err := tokens.IssueAccessToken(services.Principal{ID: "user-1"})
	require.NoError(t, err)
	refresh, err := tokens.IssueRefreshToken(services.Principal{ID: "user-1"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		path       string
		bearer     string
		wantStatus int
		wantBody   string
	}{
		{"protected without token", "/api/profile", "", http.StatusUnauthorized, ""},
		{"protected with access token", "/api/profile", access, http.StatusOK, "user-1"},
		{"protected with refresh token", "/api/profile", refresh, http.StatusUnauthorized, ""},
		{"protected with garbage", "/api/profile", "garbage", http.StatusUnauthorized, ""},
		{"public without token", "/api/user/check-email", "", http.StatusOK, ""},
		{"public with garbage continues anonymously", "/api/user/check-email", "garbage", http.StatusOK, ""},
		{"public with access token carries principal", "/api/user/check-email", access, http.StatusOK, "user-1"},
		{"public path requiring auth", "/api/user/me", "", http.StatusUnauthorized, ""},
		{"public path requiring auth with token", "/api/user/me", access, http.StatusOK, "user-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, tt.path, tt.bearer)
			assert.Equal(t, tt.wantStatus, status)
			if status == http.StatusUnauthorized {
				var envelope response.ApiResponse
				require.NoError(t, json.Unmarshal([]byte(body), &envelope))
				assert.Equal(t, response.INVALID_TOKEN, envelope.Result)
				return
			}
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestIsPublic(t *testing.T) {
	assert.True(t, isPublic("/webauthn/authenticate/options", DefaultPublicPaths))
	assert.True(t, isPublic("/login/webauthn", DefaultPublicPaths))
	assert.True(t, isPublic("/api/auth/refresh", DefaultPublicPaths))
	assert.False(t, isPublic("/api/passkey", DefaultPublicPaths))
	assert.False(t, isPublic("/api/profile", nil))
}
