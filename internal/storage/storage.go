package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotLoaded is returned by store operations called before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrNotInitialized is returned by Load when nothing exists at the configured location
	ErrNotInitialized = errors.New("storage not initialized, run 'deedlog init' first")
	// ErrAlreadyInitialized is returned by Init for file stores that already exist
	ErrAlreadyInitialized = errors.New("storage already initialized")
)

// IsPostgresConnString reports whether config names a PostgreSQL database
// rather than a file path.
func IsPostgresConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") ||
		strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=")
}

// IsJSONPath reports whether config names a JSON file store.
func IsJSONPath(config string) bool {
	return strings.EqualFold(filepath.Ext(config), ".json")
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
