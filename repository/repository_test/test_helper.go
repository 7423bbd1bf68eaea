package repository_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/shin6949/passkey-sample-be/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

var sqliteSeq int64

// SetupMockDB creates a mock database connection and registers cleanup
func SetupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	dialector := postgres.New(postgres.Config{
		Conn:       db,
		DriverName: "postgres",
		DSN:        "sqlmock_db_0",
	})

	conn, err := gorm.Open(dialector, &gorm.Config{Logger: gorm_logger.Discard})
	if err != nil {
		t.Fatalf("Failed to open GORM connection: %v", err)
	}

	return conn, mock
}

// SetupSQLiteDB opens a private in-memory sqlite database with every table migrated.
func SetupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	seq := atomic.AddInt64(&sqliteSeq, 1)
	dsn := fmt.Sprintf("file:passkey_%d?mode=memory&cache=shared", seq)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gorm_logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := conn.AutoMigrate(&domain.User{}, &domain.PasskeyUser{}, &domain.PasskeyRecord{}, &domain.RevokedRefreshToken{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return conn
}
