package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/dtos/response"
	"github.com/shin6949/passkey-sample-be/middleware"
	"github.com/shin6949/passkey-sample-be/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCookies = CookieSettings{Secure: true, RefreshTTL: time.Hour, PasswordChangeTTL: 10 * time.Minute}

type fakeAuth struct {
	tokens    *response.Tokens
	err       error
	refreshed string
	loggedOut string
}

func (f *fakeAuth) Login(context.Context, string, string) (*response.Tokens, error) {
	return f.tokens, f.err
}

func (f *fakeAuth) LoginByPasskey(context.Context, string) (*response.Tokens, error) {
	return f.tokens, f.err
}

func (f *fakeAuth) Refresh(_ context.Context, refreshToken string) (*response.Tokens, error) {
	f.refreshed = refreshToken
	return f.tokens, f.err
}

func (f *fakeAuth) Logout(_ context.Context, refreshToken string) error {
	f.loggedOut = refreshToken
	if refreshToken == "" {
		return services.ErrTokenNotFound
	}
	return f.err
}

type fakeProfile struct {
	check *response.CheckCurrentPasswordResponse
	err   error
	token string
}

func (f *fakeProfile) CheckCurrentPassword(context.Context, string, string) (*response.CheckCurrentPasswordResponse, error) {
	return f.check, f.err
}

func (f *fakeProfile) UpdatePassword(_ context.Context, _, tempToken string, _ *request.UpdatePasswordRequest) error {
	f.token = tempToken
	return f.err
}

func (f *fakeProfile) FetchProfile(context.Context, string) (*domain.User, error) {
	return &domain.User{ID: "user-1", Email: "alice@example.com", Name: "Alice", Role: domain.RoleUser}, f.err
}

func (f *fakeProfile) UpdateProfile(context.Context, string, *request.UpdateProfileRequest) (*domain.User, error) {
	return nil, f.err
}

func withUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}
}

func do(t *testing.T, app *fiber.App, method, path, body string, cookies ...*http.Cookie) (*http.Response, response.ApiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var envelope response.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantResult response.ApiResultCode
	}{
		{services.ErrInvalidToken, http.StatusUnauthorized, response.INVALID_TOKEN},
		{services.ErrTokenNotFound, http.StatusUnauthorized, response.TOKEN_NOT_FOUND},
		{fmt.Errorf("%w: bad signature", services.ErrInvalidCredentials), http.StatusUnauthorized, response.INVALID_CREDENTIALS},
		{services.ErrDisabledUser, http.StatusForbidden, response.DISABLED_USER},
		{services.ErrUserNotFound, http.StatusNotFound, response.USER_NOT_FOUND},
		{services.ErrDuplicateEmail, http.StatusConflict, response.DUPLICATE_EMAIL},
		{services.ErrPasswordMismatch, http.StatusBadRequest, response.PASSWORD_MISMATCH},
		{services.ErrPasskeyNotFound, http.StatusNotFound, response.PASSKEY_NOT_FOUND},
		{services.ErrMismatchedOwnership, http.StatusNotFound, response.INVALID_CREDENTIALS},
		{services.ErrPasskeySession, http.StatusBadRequest, response.BAD_REQUEST},
		{errors.New("connection reset"), http.StatusInternalServerError, response.INTERNAL_SERVER_ERROR},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			resp, envelope := do(t, app, http.MethodGet, "/", "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantResult, envelope.Result)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	middleware.InitValidator()
	auth := &fakeAuth{tokens: &response.Tokens{AccessToken: "access", RefreshToken: "refresh"}}
	app := fiber.New()
	app.Post("/login", middleware.ValidateBody[request.LoginRequest](), NewAuthController(auth, testCookies).Login)

	resp, envelope := do(t, app, http.MethodPost, "/login", `{"email":"alice@example.com","password":"Secret123!"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, response.SUCCESS, envelope.Result)

	cookie := cookieNamed(resp, RefreshTokenCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)

	auth.err = services.ErrInvalidCredentials
	resp, envelope = do(t, app, http.MethodPost, "/login", `{"email":"alice@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, response.INVALID_CREDENTIALS, envelope.Result)
	assert.Nil(t, cookieNamed(resp, RefreshTokenCookie))
}

func TestAuthController_RefreshAndLogout(t *testing.T) {
	auth := &fakeAuth{tokens: &response.Tokens{AccessToken: "access-2", RefreshToken: "refresh-2"}}
	ac := NewAuthController(auth, testCookies)
	app := fiber.New()
	app.Post("/refresh", ac.Refresh)
	app.Post("/logout", ac.Logout)

	resp, envelope := do(t, app, http.MethodPost, "/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, response.TOKEN_NOT_FOUND, envelope.Result)

	resp, _ = do(t, app, http.MethodPost, "/refresh", "", &http.Cookie{Name: RefreshTokenCookie, Value: "refresh-1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "refresh-1", auth.refreshed)
	assert.Equal(t, "refresh-2", cookieNamed(resp, RefreshTokenCookie).Value)

	resp, _ = do(t, app, http.MethodPost, "/logout", "", &http.Cookie{Name: RefreshTokenCookie, Value: "refresh-2"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "refresh-2", auth.loggedOut)
	cleared := cookieNamed(resp, RefreshTokenCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	resp, envelope = do(t, app, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, response.TOKEN_NOT_FOUND, envelope.Result)
}

func TestProfileController_PasswordFlow(t *testing.T) {
	middleware.InitValidator()
	profile := &fakeProfile{check: &response.CheckCurrentPasswordResponse{IsMatch: true, AuthorizationToken: "temp"}}
	pc := NewProfileController(profile, testCookies)
	app := fiber.New()
	app.Use(withUser("user-1"))
	app.Post("/password", middleware.ValidateBody[request.CheckCurrentPasswordRequest](), pc.CheckCurrentPassword)
	app.Put("/password", middleware.ValidateBody[request.UpdatePasswordRequest](), pc.UpdatePassword)
	app.Get("/password/revoke_token", pc.RevokePasswordChangeToken)

	resp, envelope := do(t, app, http.MethodPost, "/password", `{"inputPassword":"Secret123!"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := cookieNamed(resp, PasswordChangeTokenCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "temp", cookie.Value)
	assert.Equal(t, 600, cookie.MaxAge)
	data, _ := json.Marshal(envelope.Data)
	assert.NotContains(t, string(data), "temp", "the token travels only in the cookie")

	body := `{"newPassword":"Changed456?","newPasswordConfirm":"Changed456?"}`
	tempCookie := &http.Cookie{Name: PasswordChangeTokenCookie, Value: "temp"}

	profile.err = services.ErrInvalidToken
	resp, envelope = do(t, app, http.MethodPut, "/password", body, tempCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, response.INVALID_TOKEN, envelope.Result)

	profile.err = nil
	resp, _ = do(t, app, http.MethodPut, "/password", body, tempCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "temp", profile.token)
	assert.Empty(t, cookieNamed(resp, PasswordChangeTokenCookie).Value)

	resp, _ = do(t, app, http.MethodGet, "/password/revoke_token", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, cookieNamed(resp, PasswordChangeTokenCookie).Value)
}

func TestProfileController_FetchProfile(t *testing.T) {
	app := fiber.New()
	app.Use(withUser("user-1"))
	app.Get("/profile", NewProfileController(&fakeProfile{}, testCookies).FetchProfile)

	resp, envelope := do(t, app, http.MethodGet, "/profile", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "password")
}

func TestWebAuthnController_LoginRequiresSession(t *testing.T) {
	app := fiber.New()
	app.Post("/login/webauthn", NewWebAuthnController(nil, testCookies).Login)

	resp, envelope := do(t, app, http.MethodPost, "/login/webauthn", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "sessionId is required", envelope.Error)
}
