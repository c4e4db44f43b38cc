package db

import (
	"wenxing_backend/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library

	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM library
)

// DSN builds the SQLite connection string with WAL journaling and foreign keys on
func DSN(path string) string {
	return "file:" + path + "?_journal_mode=WAL&_foreign_keys=on"
}

// Open connects to the SQLite database and runs the schema migration.
// It must complete before the HTTP surface starts accepting traffic so
// first requests never race schema creation.
func Open(path string) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{}) // Open or create the database file
	if err != nil {
		return nil, err // Connection failure
	}
	// AutoMigrate creates the users table, unique index and defaults if missing
	if err := conn.AutoMigrate(&domain.User{}); err != nil {
		return nil, err // Migration failure
	}
	logrus.WithField("sqlite_path", path).Info("SQLite ready") // Log successful open
	return conn, nil
}
