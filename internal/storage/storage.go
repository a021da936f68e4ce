// Package storage persists preferences and session snapshots behind a
// Provider interface with JSON-file and SQLite implementations.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/weekwise/internal/constants"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// NewProvider returns the store for the given backend. An empty path selects
// the default location under the user config directory.
func NewProvider(backend, path string) (Provider, error) {
	var err error
	if path == "" {
		path, err = DefaultPath(backend)
		if err != nil {
			return nil, err
		}
	}

	switch strings.ToLower(backend) {
	case BackendJSON, "":
		return NewJSONStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// DefaultPath returns the default store location for a backend, e.g.
// ~/.config/weekwise/weekwise.json.
func DefaultPath(backend string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}

	name := constants.AppName + ".json"
	if strings.ToLower(backend) == BackendSQLite {
		name = constants.AppName + ".db"
	}
	return filepath.Join(configDir, constants.AppName, name), nil
}
