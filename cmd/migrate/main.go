package main

import (
	"wenxing_backend/internal/config" // Custom import path (Config)
	"wenxing_backend/internal/db"     // Custom import path (Database)
)

// Main entry point for out-of-band migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Apply the schema to the configured SQLite file
	db.Migrate(cfg.SQLitePath)
}
