package models

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenRelational connects the relational backend and migrates the schema.
// dsn is a sqlite file path or a postgres DSN depending on dbType.
func OpenRelational(dbType, dsn string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch dbType {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	case "sqlite":
		if mkErr := os.MkdirAll(filepath.Dir(dsn), 0o755); mkErr != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", mkErr)
		}
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dbType, err)
	}

	if err := MigrateRelational(db); err != nil {
		return nil, err
	}
	return db, nil
}

// MigrateRelational creates or updates the relational schema.
func MigrateRelational(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Role{},
		&Artist{},
		&Album{},
		&Media{},
		&Following{},
		&LikedMedia{},
		&VisitedMedia{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
