package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/repository/command_repository"
	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"gorm.io/gorm"
)

const revokedTokenKeyPrefix = "revoked_refresh_token:"

// TokenDigest is the storage key for a token. Signed tokens outgrow any indexable column.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IRevocationCache is keyed by TokenDigest.
type IRevocationCache interface {
	Get(ctx context.Context, tokenHash string) (*domain.RevokedRefreshToken, bool, error)
	Put(ctx context.Context, revoked *domain.RevokedRefreshToken) error
	Prune(ctx context.Context, now time.Time)
}

// MemoryRevocationCache is the in-process cache used when no redis address is configured.
type MemoryRevocationCache struct {
	entries sync.Map
}

func NewMemoryRevocationCache() *MemoryRevocationCache {
	return &MemoryRevocationCache{}
}

func (m *MemoryRevocationCache) Get(_ context.Context, tokenHash string) (*domain.RevokedRefreshToken, bool, error) {
	v, ok := m.entries.Load(tokenHash)
	if !ok {
		return nil, false, nil
	}
	return v.(*domain.RevokedRefreshToken), true, nil
}

func (m *MemoryRevocationCache) Put(_ context.Context, revoked *domain.RevokedRefreshToken) error {
	m.entries.Store(revoked.TokenHash, revoked)
	return nil
}

func (m *MemoryRevocationCache) Prune(_ context.Context, now time.Time) {
	m.entries.Range(func(key, value any) bool {
		if value.(*domain.RevokedRefreshToken).OriginalExpiredAt.Before(now) {
			m.entries.Delete(key)
		}
		return true
	})
}

// RedisRevocationCache shares revocations between instances. Entries expire with the token.
type RedisRevocationCache struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisRevocationCache(rdb *redis.Client) *RedisRevocationCache {
	return &RedisRevocationCache{rdb: rdb, now: time.Now}
}

func (r *RedisRevocationCache) Get(ctx context.Context, tokenHash string) (*domain.RevokedRefreshToken, bool, error) {
	val, err := r.rdb.Get(ctx, revokedTokenKeyPrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var revoked domain.RevokedRefreshToken
	if err := json.Unmarshal(val, &revoked); err != nil {
		return nil, false, err
	}
	return &revoked, true, nil
}

func (r *RedisRevocationCache) Put(ctx context.Context, revoked *domain.RevokedRefreshToken) error {
	data, err := json.Marshal(revoked)
	if err != nil {
		return err
	}
	ttl := revoked.OriginalExpiredAt.Sub(r.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return r.rdb.Set(ctx, revokedTokenKeyPrefix+revoked.TokenHash, data, ttl).Err()
}

// Prune is a no-op, redis expires the keys itself.
func (r *RedisRevocationCache) Prune(context.Context, time.Time) {}

// IRevocationStore takes raw tokens and hashes them itself.
type IRevocationStore interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string, expiresAt time.Time) (*domain.RevokedRefreshToken, error)
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

type RevocationStore struct {
	db      *gorm.DB
	cache   IRevocationCache
	query   query_repository.IRevokedTokenQueryRepository
	command command_repository.IRevokedTokenCommandRepository
}

func NewRevocationStore(db *gorm.DB, cache IRevocationCache, query query_repository.IRevokedTokenQueryRepository, command command_repository.IRevokedTokenCommandRepository) IRevocationStore {
	return &RevocationStore{db: db, cache: cache, query: query, command: command}
}

func (s *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	tokenHash := TokenDigest(token)
	if _, hit, err := s.cache.Get(ctx, tokenHash); err != nil {
		log.Warnf("revocation cache lookup failed, falling back to database: %v", err)
	} else if hit {
		return true, nil
	}

	revoked, err := s.query.GetByTokenHash(s.db.WithContext(ctx), tokenHash)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// NOTE: misses are not cached
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find revoked token: %w", err)
	}
	if err := s.cache.Put(ctx, revoked); err != nil {
		log.Warnf("failed to cache revoked token: %v", err)
	}
	return true, nil
}

// Revoke persists the revocation and populates the cache in one transaction.
// A cache failure rolls the durable write back. Only the caller whose insert lands
// succeeds, every other caller racing on the same token gets ErrAlreadyRevoked.
func (s *RevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) (*domain.RevokedRefreshToken, error) {
	revoked := &domain.RevokedRefreshToken{TokenHash: TokenDigest(token), OriginalExpiredAt: expiresAt}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := s.command.Save(tx, revoked)
		if err != nil {
			return err
		}
		if !inserted {
			return ErrAlreadyRevoked
		}
		return s.cache.Put(ctx, revoked)
	})
	if errors.Is(err, ErrAlreadyRevoked) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("revoke token: %w", err)
	}
	return revoked, nil
}

func (s *RevocationStore) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := s.command.DeleteExpiredBefore(s.db.WithContext(ctx), now)
	if err != nil {
		return 0, fmt.Errorf("prune revoked tokens: %w", err)
	}
	s.cache.Prune(ctx, now)
	return deleted, nil
}

// RunPruner deletes expired revocations every interval until ctx is cancelled.
func RunPruner(ctx context.Context, store IRevocationStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			deleted, err := store.PruneExpired(ctx, now)
			if err != nil {
				log.Error("revocation prune failed: ", err)
				continue
			}
			if deleted > 0 {
				log.Infof("pruned %d expired revoked tokens", deleted)
			}
		}
	}
}
