// Package memory is an in-process kv.Store, optionally seeded from JSON files.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"lifedeck/internal/kv"
)

type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

var _ kv.Store = (*Store)(nil)

func New() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// NewFromFiles seeds a store from every <key>.json file in base. Files that
// are not valid JSON are skipped so a bad seed never blocks startup.
func NewFromFiles(base string) *Store {
	s := New()
	entries, err := os.ReadDir(base)
	if err != nil {
		return s
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(base, name))
		if err != nil || !json.Valid(b) {
			continue
		}
		s.slots[strings.TrimSuffix(name, ".json")] = b
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	return kv.Clone(v), ok, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = kv.Clone(value)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.slots))
	for k := range s.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
