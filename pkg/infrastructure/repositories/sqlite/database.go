// Package sqlite stores parts, BOM lines and the stock ledger in a single
// SQLite database file. The part and bom tables keep the column names used by
// existing VR-Factory databases, so an old file opens without conversion.
package sqlite

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath is the database file used when none is configured
const DefaultPath = "VR-Factory.db"

// Open opens (creating if needed) the database file at path and migrates the schema
func Open(path string) (*gorm.DB, error) {
	if path == "" {
		path = DefaultPath
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	// One writer; keeps transactions and plain queries on the same connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&partRow{}, &bomRow{}, &movementRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return db, nil
}

// Close releases the database file
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
