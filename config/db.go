package config

import (
	"errors"
	def_log "log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlserver"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shin6949/passkey-sample-be/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

const (
	DriverSQLServer = "sqlserver"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

func dialectorFor(driver, url string) gorm.Dialector {
	switch driver {
	case DriverPostgres:
		return postgres.Open(url)
	case DriverSQLite:
		return sqlite.Open(url)
	default:
		return sqlserver.Open(url)
	}
}

func OpenDatabaseConnection(url string) *gorm.DB {
	driver := Conf.Application.Datasource.Driver
	log.Infof("Opening %s database connection", driver)

	gormLogger := gorm_logger.New(
		def_log.New(os.Stdout, "\r\n", def_log.LstdFlags),
		gorm_logger.Config{
			LogLevel:                  gorm_logger.Warn,
			Colorful:                  true,
			SlowThreshold:             time.Second,
			IgnoreRecordNotFoundError: true,
		},
	)

	// NOTE: Open database connection
	db, err := gorm.Open(dialectorFor(driver, url), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Panic("Failed to open database connection")
	} else {
		log.Info("Successfully opened database connection")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Panic("failed to retrieve database instance from GORM")
	}

	log.Info("configuring database connection pool settings...")
	if driver == DriverSQLite {
		// NOTE: sqlite serialises writers, keep a single connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxIdleConns(Conf.Application.Datasource.MaxIdleConnections)
		sqlDB.SetMaxOpenConns(Conf.Application.Datasource.MaxOpenConnections)
	}
	sqlDB.SetConnMaxLifetime(time.Minute * time.Duration(Conf.Application.Datasource.ConnectionMaxLifetime))

	log.Info("database connection pool successfully configured")
	return db
}

// Migrate applies the versioned SQL migrations. sqlite has no migration scripts and is
// synchronised from the entity definitions instead.
func Migrate(db *gorm.DB, url string) {
	if Conf.Application.Datasource.Driver == DriverSQLite {
		log.Info("auto-migrating sqlite schema...")
		if err := AutoMigrate(db); err != nil {
			log.Panic("failed to auto-migrate schema: ", err)
		}
		return
	}

	log.Info("configuring migration instance settings...")
	// NOTE: Migration instance creating...
	m, err := migrate.New(Conf.Application.Migration, url)
	if err != nil {
		log.Panic("failed to create migration instance: ", err)
	}
	defer m.Close()

	log.Info("migration applying...")
	// NOTE: Apply migration operations
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Panic("failed to run migration: ", err)
	}

	log.Info("database migrated successfully")
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.PasskeyUser{},
		&domain.PasskeyRecord{},
		&domain.RevokedRefreshToken{},
	)
}

func CloseDatabaseConnection(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Error occurred while retrieving the database connection: ", err)
		return
	}
	// NOTE: Close database connection
	if err := sqlDB.Close(); err != nil {
		log.Error("Failed to close the database connection")
	} else {
		log.Info("Database connection closed successfully")
	}
}
