package db

import (
	"github.com/sirupsen/logrus"
)

// Migrate opens the database and applies the schema, for out-of-band use
func Migrate(path string) {
	if _, err := Open(path); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
