package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageMemory(t *testing.T) {
	s, err := NewStorage(Config{Type: StorageTypeMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ConceptStore{}, s)
}

func TestNewStorageSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "factory-test.db")
	s, err := NewStorage(Config{Type: StorageTypeSQLite, SQLitePath: dbPath, SQLiteTimeout: 5000}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteConceptStore{}, s)
	assert.NoError(t, CloseStorage(s))
}

func TestNewStorageUnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "unknown"}, nil)
	assert.Error(t, err)
}

func TestNewStorageSQLiteInvalidPathWithoutFallbackFails(t *testing.T) {
	_, err := NewStorage(Config{Type: StorageTypeSQLite, SQLitePath: ""}, nil)
	assert.Error(t, err)
}

func TestNewStorageFromEnv(t *testing.T) {
	for _, key := range []string{"REASONER_STORAGE_TYPE", "REASONER_SQLITE_PATH", "REASONER_SQLITE_TIMEOUT"} {
		orig := os.Getenv(key)
		defer os.Setenv(key, orig)
		os.Unsetenv(key)
	}

	s, err := NewStorageFromEnv(nil)
	require.NoError(t, err)
	assert.IsType(t, &ConceptStore{}, s)
}

func TestCloseStorageNoopOnMemory(t *testing.T) {
	s := NewConceptStore(nil)
	assert.NoError(t, CloseStorage(s))
}

func TestCloseStorageClosesSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "close-test.db")
	s, err := NewSQLiteConceptStore(dbPath, 5000, nil)
	require.NoError(t, err)
	assert.NoError(t, CloseStorage(s))
}
