package kv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/zhubert/chatstate/internal/errors"
	"github.com/zhubert/chatstate/internal/logger"
)

// FileStore is a Store persisted as one JSON object file.
// Every write rewrites the whole file through a temp file and rename,
// so the file on disk always holds the last completed write.
type FileStore struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

// OpenFileStore loads the store at path. A missing file is an empty store;
// the parent directory is created on first write.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.StorageOpenFailed(path, err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, errors.StorageCorrupt(path, err)
	}
	if s.data == nil {
		s.data = make(map[string]string)
	}

	logger.ComponentLogger("kv").Debug("opened file store", "path", path, "keys", len(s.data))
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cloneLocked()
	next[key] = value
	if err := s.writeLocked(next); err != nil {
		return errors.StorageWriteFailed(key, err)
	}
	s.data = next
	return nil
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	next := s.cloneLocked()
	delete(next, key)
	if err := s.writeLocked(next); err != nil {
		return errors.StorageRemoveFailed(key, err)
	}
	s.data = next
	return nil
}

func (s *FileStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.data), nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) cloneLocked() map[string]string {
	next := make(map[string]string, len(s.data)+1)
	for k, v := range s.data {
		next[k] = v
	}
	return next
}

func (s *FileStore) writeLocked(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.path, raw, 0600)
}

// atomicWriteFile writes data next to path and renames it into place.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
