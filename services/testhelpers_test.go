package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/shin6949/passkey-sample-be/config"
	"github.com/shin6949/passkey-sample-be/domain"
	"github.com/shin6949/passkey-sample-be/dtos/request"
	"github.com/shin6949/passkey-sample-be/repository/command_repository"
	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"github.com/shin6949/passkey-sample-be/repository/repository_test"
	"github.com/shin6949/passkey-sample-be/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	keysOnce   sync.Once
	cachedKeys *config.SigningKeys
	otherKey   *rsa.PrivateKey
)

// testKeys generates the RSA material once per test binary.
func testKeys(t *testing.T) *config.SigningKeys {
	t.Helper()
	keysOnce.Do(func() {
		pair := func() *config.KeyPair {
			k, err := rsa.GenerateKey(rand.Reader, 2048)
			if err != nil {
				panic(err)
			}
			return &config.KeyPair{Private: k, Public: &k.PublicKey}
		}
		cachedKeys = &config.SigningKeys{Access: pair(), Refresh: pair()}
		otherKey = pair().Private
	})
	return cachedKeys
}

type fixture struct {
	db          *gorm.DB
	now         time.Time
	cache       *MemoryRevocationCache
	revocations IRevocationStore
	tokens      *TokenService
	userQuery   query_repository.IUserQueryRepository
	userCommand command_repository.IUserCommandRepository
	events      *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repository_test.SetupSQLiteDB(t)
	f := &fixture{
		db:          db,
		now:         time.Now().Truncate(time.Second),
		cache:       NewMemoryRevocationCache(),
		userQuery:   query_repository.NewUserQueryRepository(),
		userCommand: command_repository.NewUserCommandRepository(),
		events:      &recordingPublisher{},
	}
	f.revocations = NewRevocationStore(db, f.cache, query_repository.NewRevokedTokenQueryRepository(), command_repository.NewRevokedTokenCommandRepository())
	f.tokens = NewTokenService(testKeys(t), "passkey-sample-test", 30*time.Minute, 14*24*time.Hour, f.revocations)
	f.tokens.Now = func() time.Time { return f.now }
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) seedUser(t *testing.T, email, password string) *domain.User {
	t.Helper()
	return f.seedUserWithID(t, "user-"+email, email, password)
}

func (f *fixture) seedUserWithID(t *testing.T, id, email, password string) *domain.User {
	t.Helper()
	hashed, err := util.HashPassword(password)
	require.NoError(t, err)
	user := &domain.User{
		ID:       id,
		Email:    email,
		Password: hashed,
		Name:     "Tester",
		Role:     domain.RoleUser,
		Enabled:  true,
	}
	_, err = f.userCommand.Create(f.db, user)
	require.NoError(t, err)
	return user
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []request.AuthEventType
}

func (r *recordingPublisher) Publish(_ context.Context, eventType request.AuthEventType, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recordingPublisher) recorded() []request.AuthEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]request.AuthEventType(nil), r.events...)
}
