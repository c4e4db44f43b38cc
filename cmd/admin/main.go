package main

import (
	"errors"                          // Sentinel error matching
	"flag"                            // Command-line flag parsing
	"fmt"                             // Console output
	"os"                              // Exit codes and arguments
	"wenxing_backend/internal/config" // Custom import path (Config)
	"wenxing_backend/internal/db"     // Custom import path (Database)
	"wenxing_backend/internal/store"  // Custom import path (User store)
)

// Exit codes: 1 usage error, 2 user not found, 3 operational failure
const (
	exitUsage    = 1 // Bad arguments
	exitNotFound = 2 // No such user
	exitFailure  = 3 // Database or update failure
)

// usage prints how to invoke the tool
func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  admin set-pro -user <id> -on
  admin set-pro -user <id> -off

Example:
  admin set-pro -user 12 -on
`)
}

// Main entry point for the operator CLI; same set-pro mutation as the admin API
func main() {
	if len(os.Args) < 2 || os.Args[1] != "set-pro" {
		usage()
		os.Exit(exitUsage) // Unknown or missing command
	}

	fs := flag.NewFlagSet("set-pro", flag.ExitOnError) // Subcommand flags
	userID := fs.Int("user", 0, "target user id")      // Target user
	on := fs.Bool("on", false, "enable pro status")    // Turn pro on
	off := fs.Bool("off", false, "disable pro status") // Turn pro off
	_ = fs.Parse(os.Args[2:])                          // ExitOnError handles parse failures

	// The id must be positive and exactly one of -on/-off must be given
	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "user id must be a positive integer")
		usage()
		os.Exit(exitUsage)
	}
	if *on == *off {
		fmt.Fprintln(os.Stderr, "specify exactly one of -on or -off")
		usage()
		os.Exit(exitUsage)
	}

	cfg := config.LoadConfig() // Load configuration

	// Open the store against the same SQLite file as the server
	conn, err := db.Open(cfg.SQLitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "operation failed: %v\n", err)
		os.Exit(exitFailure)
	}
	users := store.New(conn) // User store over the opened handle

	// Apply the mutation
	user, err := users.SetProStatus(uint(*userID), *on)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "user not found: %d\n", *userID)
			os.Exit(exitNotFound)
		}
		fmt.Fprintf(os.Stderr, "operation failed: %v\n", err)
		os.Exit(exitFailure)
	}
	// Print the updated user
	fmt.Printf("updated: id=%d username=%s isPro=%t\n", user.ID, user.Username, user.IsPro)
}
