package objstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory ObjectStorage for tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Fail, when set, is returned by every Put and Remove call.
	Fail error
}

// NewMemory returns an empty in-memory object store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, path string, data []byte, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	if _, exists := m.objects[path]; exists && !overwrite {
		return fmt.Errorf("object already exists: %s", path)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[path] = cp
	return nil
}

func (m *Memory) Remove(ctx context.Context, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	for _, p := range paths {
		delete(m.objects, p)
	}
	return nil
}

func (m *Memory) PublicURL(path string) string {
	return "memory://" + Bucket + "/" + path
}

// Has reports whether an object exists at path. Test helper.
func (m *Memory) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[path]
	return ok
}

// Len returns the number of stored objects. Test helper.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
