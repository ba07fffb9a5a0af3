// Package kv provides the string key/value storage that chatstate persists
// its containers into. It plays the role browser local storage plays for a
// web front-end: synchronous, process-local, keyed by plain strings.
//
// # Backends
//
//   - memory: a map, lost at process exit. Used by tests.
//   - file: a single JSON object file, rewritten atomically on every write.
//   - sqlite: a kv table in a SQLite database.
//
// Values are opaque strings. Containers that need structure encode JSON
// themselves, or go through Structured which adds an expiry envelope.
package kv

import (
	"path/filepath"
	"strings"

	"github.com/zhubert/chatstate/internal/errors"
)

// Store is a synchronous string key/value store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any prior value.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Keys returns every stored key in ascending order.
	Keys() ([]string, error)
	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Backends lists the backend names accepted by Open.
var Backends = []string{BackendFile, BackendSQLite, BackendMemory}

// File names used inside the data directory.
const (
	FileStoreName   = "storage.json"
	SQLiteStoreName = "storage.db"
)

// Open opens the named backend rooted at dataDir. An empty name selects the file backend.
func Open(backend, dataDir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		return OpenFileStore(filepath.Join(dataDir, FileStoreName))
	case BackendSQLite:
		return OpenSQLiteStore(filepath.Join(dataDir, SQLiteStoreName))
	default:
		return nil, errors.UnknownBackend(backend)
	}
}

// IsBackend reports whether name is accepted by Open.
func IsBackend(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendMemory, BackendFile, BackendSQLite:
		return true
	}
	return false
}
