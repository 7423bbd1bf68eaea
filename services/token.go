package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shin6949/passkey-sample-be/config"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/dtos/response"
)

type TokenKind int

const (
	KindAccess TokenKind = iota
	KindRefresh
)

func (k TokenKind) String() string {
	if k == KindRefresh {
		return "refresh"
	}
	return "access"
}

type TempTokenAction string

const (
	ActionUpdatePassword TempTokenAction = "UPDATE_PASSWORD"
	ActionDeleteAccount  TempTokenAction = "DELETE_ACCOUNT"
)

func ParseTempTokenAction(raw string) (TempTokenAction, error) {
	switch TempTokenAction(raw) {
	case ActionUpdatePassword, ActionDeleteAccount:
		return TempTokenAction(raw), nil
	}
	return "", fmt.Errorf("unknown temp token action %q", raw)
}

// Principal is the authenticated identity a token pair is minted for.
type Principal struct {
	ID    string
	Email string
	Role  domain.UserRole
}

func PrincipalOf(user *domain.User) Principal {
	return Principal{ID: user.ID, Email: user.Email, Role: user.Role}
}

type ITokenService interface {
	IssueAccessToken(p Principal) (string, error)
	IssueRefreshToken(p Principal) (string, error)
	IssueTokenPair(p Principal) (*response.Tokens, error)
	IssueTempAuthorizationToken(userID string, ttl time.Duration, action TempTokenAction) (string, error)
	Validate(ctx context.Context, token string, kind TokenKind) error
	SubjectOf(token string, kind TokenKind) (string, error)
	SubjectOfTempToken(token string, expected TempTokenAction) (string, error)
	ExpirationOf(token string, kind TokenKind) (time.Time, error)
	Revoke(ctx context.Context, token string) (*domain.RevokedRefreshToken, error)
}

type tokenClaims struct {
	Action string `json:"action,omitempty"`
	jwt.RegisteredClaims
}

// tokenDomain pairs a kind with its key material. Values only come from TokenService.domain.
type tokenDomain struct {
	kind TokenKind
	keys *config.KeyPair
}

type verification struct {
	claims *tokenClaims
	reason string
}

func (v verification) valid() bool {
	return v.reason == ""
}

type TokenService struct {
	Keys        *config.SigningKeys
	Issuer      string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	Revocations IRevocationStore
	Now         func() time.Time
}

func NewTokenService(keys *config.SigningKeys, issuer string, accessTTL, refreshTTL time.Duration, revocations IRevocationStore) *TokenService {
	return &TokenService{
		Keys:        keys,
		Issuer:      issuer,
		AccessTTL:   accessTTL,
		RefreshTTL:  refreshTTL,
		Revocations: revocations,
		Now:         time.Now,
	}
}

func (s *TokenService) domain(kind TokenKind) tokenDomain {
	if kind == KindRefresh {
		return tokenDomain{kind: KindRefresh, keys: s.Keys.Refresh}
	}
	return tokenDomain{kind: KindAccess, keys: s.Keys.Access}
}

func (s *TokenService) sign(d tokenDomain, subject string, ttl time.Duration, action string) (string, error) {
	now := s.Now()
	claims := tokenClaims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(d.keys.Private)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", d.kind, err)
	}
	return signed, nil
}

func (s *TokenService) IssueAccessToken(p Principal) (string, error) {
	return s.sign(s.domain(KindAccess), p.ID, s.AccessTTL, "")
}

func (s *TokenService) IssueRefreshToken(p Principal) (string, error) {
	return s.sign(s.domain(KindRefresh), p.ID, s.RefreshTTL, "")
}

func (s *TokenService) IssueTokenPair(p Principal) (*response.Tokens, error) {
	access, err := s.IssueAccessToken(p)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefreshToken(p)
	if err != nil {
		return nil, err
	}
	return &response.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueTempAuthorizationToken mints a short-lived token for a sensitive action, signed with the refresh key.
func (s *TokenService) IssueTempAuthorizationToken(userID string, ttl time.Duration, action TempTokenAction) (string, error) {
	return s.sign(s.domain(KindRefresh), userID, ttl, string(action))
}

func (s *TokenService) verify(d tokenDomain, token string) verification {
	if token == "" {
		return verification{reason: "empty token"}
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(s.Issuer),
		jwt.WithTimeFunc(s.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	claims := &tokenClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return d.keys.Public, nil
	})
	switch {
	case err == nil:
		return verification{claims: claims}
	case errors.Is(err, jwt.ErrTokenExpired):
		return verification{reason: "expired"}
	case errors.Is(err, jwt.ErrTokenMalformed):
		return verification{reason: "malformed"}
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return verification{reason: "signature mismatch"}
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return verification{reason: "unsupported"}
	default:
		return verification{reason: err.Error()}
	}
}

// checked verifies the token and logs the failure reason. Callers only ever see ErrInvalidToken.
func (s *TokenService) checked(kind TokenKind, token string) (*tokenClaims, error) {
	v := s.verify(s.domain(kind), token)
	if !v.valid() {
		log.Infof("%s token rejected: %s", kind, v.reason)
		return nil, ErrInvalidToken
	}
	return v.claims, nil
}

// Validate checks signature, issuer and expiry. Refresh-kind tokens are also checked against the revocation store.
func (s *TokenService) Validate(ctx context.Context, token string, kind TokenKind) error {
	if _, err := s.checked(kind, token); err != nil {
		return err
	}
	if kind != KindRefresh {
		return nil
	}
	revoked, err := s.Revocations.IsRevoked(ctx, token)
	if err != nil {
		return fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		log.Info("refresh token rejected: revoked")
		return ErrInvalidToken
	}
	return nil
}

func (s *TokenService) SubjectOf(token string, kind TokenKind) (string, error) {
	claims, err := s.checked(kind, token)
	if err != nil {
		return "", err
	}
	// NOTE: a temp authorization token shares the refresh key but must never act as a refresh token
	if kind == KindRefresh && claims.Action != "" {
		log.Infof("refresh token rejected: carries action %s", claims.Action)
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *TokenService) SubjectOfTempToken(token string, expected TempTokenAction) (string, error) {
	claims, err := s.checked(KindRefresh, token)
	if err != nil {
		return "", err
	}
	action, err := ParseTempTokenAction(claims.Action)
	if err != nil || action != expected {
		log.Infof("temp token rejected: action %q, expected %s", claims.Action, expected)
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *TokenService) ExpirationOf(token string, kind TokenKind) (time.Time, error) {
	claims, err := s.checked(kind, token)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt.Time, nil
}

// Revoke records a refresh-domain token as revoked until its own expiry.
// A token that is already revoked, expired or forged fails with ErrInvalidToken,
// including when a concurrent caller wins the revocation.
func (s *TokenService) Revoke(ctx context.Context, token string) (*domain.RevokedRefreshToken, error) {
	if err := s.Validate(ctx, token, KindRefresh); err != nil {
		return nil, err
	}
	expiresAt, err := s.ExpirationOf(token, KindRefresh)
	if err != nil {
		return nil, err
	}
	revoked, err := s.Revocations.Revoke(ctx, token, expiresAt)
	if errors.Is(err, ErrAlreadyRevoked) {
		log.Info("refresh token rejected: revoked concurrently")
		return nil, ErrInvalidToken
	}
	return revoked, err
}
