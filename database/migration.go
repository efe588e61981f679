package database

import (
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

const sqliteMigrationsPath = "database/migrations/sqlite"

// MigrateDatabase applies the file migrations that AutoMigrate cannot
// express (partial indexes, data backfills). Only wired for sqlite, which
// is the default deployment; skipped silently when the migrations
// directory is not present next to the binary.
func MigrateDatabase(db *gorm.DB) error {
	if _, err := os.Stat(sqliteMigrationsPath); err != nil {
		return nil
	}

	sqlDb, err := db.DB()
	if err != nil {
		return err
	}

	driver, err := sqlite3.WithInstance(sqlDb, &sqlite3.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+sqliteMigrationsPath,
		"sqlite3", driver)
	if err != nil {
		return err
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
