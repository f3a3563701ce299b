// Package storage provides configuration for storage backends.
package storage

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// StorageType represents the type of storage backend.
type StorageType string

const (
	StorageTypeMemory StorageType = "memory"
	StorageTypeSQLite StorageType = "sqlite"
)

// Config holds storage backend configuration.
type Config struct {
	Type          StorageType
	SQLitePath    string
	SQLiteTimeout int
	FallbackType  StorageType // backend NewStorage falls back to if Type fails to initialize
}

// DefaultConfig returns in-memory storage configuration.
func DefaultConfig() Config {
	return Config{
		Type:          StorageTypeMemory,
		SQLitePath:    "./data/hdcreason.db",
		SQLiteTimeout: 5000,
		FallbackType:  StorageTypeMemory,
	}
}

// ConfigFromEnv reads storage configuration from environment variables:
//   - REASONER_STORAGE_TYPE: "memory" (default) or "sqlite"
//   - REASONER_SQLITE_PATH: path to the SQLite database file
//   - REASONER_SQLITE_TIMEOUT: busy timeout in milliseconds
//   - REASONER_STORAGE_FALLBACK: backend to fall back to on init failure
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if storageType := os.Getenv("REASONER_STORAGE_TYPE"); storageType != "" {
		cfg.Type = StorageType(storageType)
	}
	if sqlitePath := os.Getenv("REASONER_SQLITE_PATH"); sqlitePath != "" {
		cfg.SQLitePath = sqlitePath
	}
	if cfg.Type == StorageTypeSQLite {
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			log.Printf("warning: failed to create SQLite directory %s: %v (factory will handle this)", dir, err)
		}
	}
	if timeout := os.Getenv("REASONER_SQLITE_TIMEOUT"); timeout != "" {
		if val, err := strconv.Atoi(timeout); err == nil && val > 0 {
			cfg.SQLiteTimeout = val
		}
	}
	if fallback := os.Getenv("REASONER_STORAGE_FALLBACK"); fallback != "" {
		cfg.FallbackType = StorageType(fallback)
	}

	return cfg
}
