package storage

import (
	"sort"
	"sync"
)

// MemoryStore is a map-backed Provider. WriteErr, when set, makes every
// Apply fail without changing anything, which lets callers exercise their
// store-failure paths.
type MemoryStore struct {
	mu       sync.Mutex
	values   map[string]string
	WriteErr error
	ReadErr  error
}

// NewMemoryStore returns a loaded store seeded with values.
func NewMemoryStore(values map[string]string) *MemoryStore {
	m := &MemoryStore{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *MemoryStore) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	return nil
}

func (m *MemoryStore) Load() error { return m.Init() }
func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return "", false, m.ReadErr
	}
	if m.values == nil {
		return "", false, ErrNotLoaded
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Apply(set map[string]string, del []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if m.values == nil {
		return ErrNotLoaded
	}
	for k, v := range set {
		m.values[k] = v
	}
	for _, k := range del {
		delete(m.values, k)
	}
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		return nil, ErrNotLoaded
	}
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryStore) GetConfigPath() string {
	return "memory"
}
