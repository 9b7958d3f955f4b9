// Package allowlist implements the standing-exemption store. Matching is
// exact-string only; an approved "always allow" persists the literal command
// or target text, never a pattern.
package allowlist

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aegis-go/internal/domain"
	"github.com/doeshing/aegis-go/internal/ports"
)

// MemoryStore keeps exemptions for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]struct{}
}

// NewMemoryStore builds a store pre-seeded with the given entries.
func NewMemoryStore(entries ...string) *MemoryStore {
	set := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		set[entry] = struct{}{}
	}
	return &MemoryStore{entries: set}
}

// IsAllowed implements ports.AllowList.
func (s *MemoryStore) IsAllowed(text string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[text]
	return ok
}

// Allow implements ports.AllowList.
func (s *MemoryStore) Allow(text string) error {
	if text == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[text] = struct{}{}
	return nil
}

// FileStore persists exemptions to a YAML file under ~/.aegis, loading any
// existing entries at construction time.
type FileStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]struct{}
}

type allowFile struct {
	Entries []string `yaml:"entries"`
}

// NewFileStore opens (or creates) the store at path; an empty path means
// ~/.aegis/allowlist.yaml. Load failures start an empty store rather than
// failing construction.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = filepath.Join(userHome(), ".aegis", "allowlist.yaml")
	}
	store := &FileStore{path: path, entries: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		return store
	}
	var doc allowFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return store
	}
	for _, entry := range doc.Entries {
		store.entries[entry] = struct{}{}
	}
	return store
}

// IsAllowed implements ports.AllowList.
func (s *FileStore) IsAllowed(text string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[text]
	return ok
}

// Allow implements ports.AllowList, persisting the updated set.
func (s *FileStore) Allow(text string) error {
	if text == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[text] = struct{}{}
	return s.persistLocked()
}

func (s *FileStore) persistLocked() error {
	doc := allowFile{Entries: make([]string, 0, len(s.entries))}
	for entry := range s.entries {
		doc.Entries = append(doc.Entries, entry)
	}
	sort.Strings(doc.Entries)

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, domain.SecureFilePermissions)
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var (
	_ ports.AllowList = (*MemoryStore)(nil)
	_ ports.AllowList = (*FileStore)(nil)
)
