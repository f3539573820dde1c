package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const StorageKey = "lerncasino_user"

// Store persists the player profile as a single JSON blob.
type Store interface {
	Load() (Profile, error)
	Save(p Profile) error
}

// FileStore keeps the blob in <dir>/lerncasino_user.json.
type FileStore struct {
	path string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, StorageKey+".json")}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load overlays the stored fields onto the defaults. A missing file yields
// the defaults; a corrupt one yields the defaults and an error.
func (s *FileStore) Load() (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("error reading profile: %w", err)
	}
	return decodeProfile(data)
}

func (s *FileStore) Save(p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("error creating state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("error writing profile: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// MemoryStore is used in guest mode without a state dir and in tests.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return DefaultProfile(), nil
	}
	return decodeProfile(s.data)
}

func (s *MemoryStore) Save(p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func decodeProfile(data []byte) (Profile, error) {
	p := DefaultProfile()
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultProfile(), fmt.Errorf("error decoding profile: %w", err)
	}
	return p, nil
}
