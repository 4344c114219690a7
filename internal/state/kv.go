package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/danieljhkim/gqlpick/internal/fsops"
	"github.com/danieljhkim/gqlpick/internal/logging"
)

const (
	// LastEndpointKey holds the endpoint confirmed most recently.
	LastEndpointKey = "last-endpoint"

	// WorkspacesKey holds the serialized workspace registry.
	WorkspacesKey = "workspaces-state"
)

// KV is a small string key-value persistence capability.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// FileKV implements KV as a single JSON object file.
type FileKV struct {
	mu     sync.Mutex
	fs     fsops.FS
	path   string
	logger hclog.Logger
}

// NewFileKV creates a FileKV persisting to path.
func NewFileKV(fs fsops.FS, path string, logger hclog.Logger) *FileKV {
	return &FileKV{
		fs:     fs,
		path:   path,
		logger: logging.OrNull(logger),
	}
}

// Get returns the value for key. A missing file reads as empty.
func (s *FileKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", false, err
	}

	value, ok := entries[key]
	return value, ok, nil
}

// Set stores value under key. A corrupt file is replaced.
func (s *FileKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		if !errors.Is(err, ErrCorruptStorage) {
			return err
		}
		s.logger.Warn("replacing corrupt storage file", "path", s.path, "error", err)
		entries = map[string]string{}
	}

	entries[key] = value
	return s.save(entries)
}

// Delete removes key.
func (s *FileKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}

	delete(entries, key)
	return s.save(entries)
}

func (s *FileKV) load() (map[string]string, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStorage, err)
	}
	if entries == nil {
		entries = map[string]string{}
	}

	return entries, nil
}

func (s *FileKV) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}

	return nil
}

// MemoryKV implements KV in memory.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]string)}
}

// Get returns the value for key.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	return value, ok, nil
}

// Set stores value under key.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
