package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/redis/go-redis/v9"
)

const (
	registrationSessionKey = "webauthn:registration:"
	loginSessionKey        = "webauthn:login:"
	emailExistsKey         = "user:email-exists:"
)

// IRedisService keeps short-lived ceremony state and lookup caches.
type IRedisService interface {
	StoreRegistrationSession(ctx context.Context, userID string, sessionData *webauthn.SessionData) error
	GetRegistrationSession(ctx context.Context, userID string) (*webauthn.SessionData, error)
	DeleteRegistrationSession(ctx context.Context, userID string) error
	StoreLoginSession(ctx context.Context, sessionID string, sessionData *webauthn.SessionData) error
	GetLoginSession(ctx context.Context, sessionID string) (*webauthn.SessionData, error)
	DeleteLoginSession(ctx context.Context, sessionID string) error
	MarkEmailExists(ctx context.Context, email string) error
	IsEmailKnown(ctx context.Context, email string) (bool, error)
	ForgetEmail(ctx context.Context, email string) error
}

type RedisService struct {
	rdb        *redis.Client
	sessionTTL time.Duration
}

func NewRedisService(rdb *redis.Client, sessionTTL time.Duration) *RedisService {
	return &RedisService{rdb: rdb, sessionTTL: sessionTTL}
}

func (s *RedisService) storeSession(ctx context.Context, key string, sessionData *webauthn.SessionData) error {
	data, err := json.Marshal(sessionData)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, data, s.sessionTTL).Err()
}

// getSession maps a missing or expired key to ErrPasskeySession.
func (s *RedisService) getSession(ctx context.Context, key string) (*webauthn.SessionData, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPasskeySession
	}
	if err != nil {
		return nil, err
	}
	var sessionData webauthn.SessionData
	if err := json.Unmarshal(val, &sessionData); err != nil {
		return nil, err
	}
	return &sessionData, nil
}

func (s *RedisService) StoreRegistrationSession(ctx context.Context, userID string, sessionData *webauthn.SessionData) error {
	return s.storeSession(ctx, registrationSessionKey+userID, sessionData)
}

func (s *RedisService) GetRegistrationSession(ctx context.Context, userID string) (*webauthn.SessionData, error) {
	return s.getSession(ctx, registrationSessionKey+userID)
}

func (s *RedisService) DeleteRegistrationSession(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, registrationSessionKey+userID).Err()
}

func (s *RedisService) StoreLoginSession(ctx context.Context, sessionID string, sessionData *webauthn.SessionData) error {
	return s.storeSession(ctx, loginSessionKey+sessionID, sessionData)
}

func (s *RedisService) GetLoginSession(ctx context.Context, sessionID string) (*webauthn.SessionData, error) {
	return s.getSession(ctx, loginSessionKey+sessionID)
}

func (s *RedisService) DeleteLoginSession(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, loginSessionKey+sessionID).Err()
}

// MarkEmailExists caches a positive duplicate-email answer for a day.
func (s *RedisService) MarkEmailExists(ctx context.Context, email string) error {
	return s.rdb.Set(ctx, emailExistsKey+email, "1", 24*time.Hour).Err()
}

func (s *RedisService) IsEmailKnown(ctx context.Context, email string) (bool, error) {
	n, err := s.rdb.Exists(ctx, emailExistsKey+email).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ForgetEmail drops a cached positive answer once the address is free again.
func (s *RedisService) ForgetEmail(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, emailExistsKey+email).Err()
}
