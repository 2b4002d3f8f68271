package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/felixgeelhaar/pulsehr/internal/errors"
)

// TokenStore persists the bearer token between runs. Nothing else is
// persisted.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token as plain text in a single 0600 file.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (f *FileTokenStore) Path() string { return f.path }

// Load returns "" when no token has been saved.
func (f *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "failed to read token", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create token directory", err)
	}
	if err := os.WriteFile(f.path, []byte(token), 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to save token", err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to remove token", err)
	}
	return nil
}

// MemoryTokenStore is an in-process TokenStore.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	// SaveErr, when set, is returned by Save.
	SaveErr error
}

func (m *MemoryTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.token = token
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
