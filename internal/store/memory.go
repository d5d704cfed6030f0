package store

import (
	"context"
	"sync"
)

// Memory is an in-memory Store used in tests and for failure injection.
// Records are copied on the way in and out.
type Memory struct {
	mu   sync.Mutex
	data map[string][]Row

	// Fail maps a collection name to an error every operation on that
	// collection returns. Useful for degraded-load tests.
	Fail map[string]error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]Row)}
}

func (m *Memory) failure(collection string) error {
	if m.Fail == nil {
		return nil
	}
	return m.Fail[collection]
}

func copyRow(rec Row) Row {
	out := make(Row, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func matches(rec Row, match Filter) bool {
	for k, v := range match {
		if rec[k] != v {
			return false
		}
	}
	return true
}

func (m *Memory) Select(ctx context.Context, collection string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(collection); err != nil {
		return nil, err
	}
	var out []Row
	for _, rec := range m.data[collection] {
		out = append(out, copyRow(rec))
	}
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, rec Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(collection); err != nil {
		return err
	}
	m.data[collection] = append(m.data[collection], copyRow(rec))
	return nil
}

func (m *Memory) Update(ctx context.Context, collection string, patch Row, match Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(collection); err != nil {
		return err
	}
	for _, rec := range m.data[collection] {
		if matches(rec, match) {
			for k, v := range patch {
				rec[k] = v
			}
		}
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection string, match Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(collection); err != nil {
		return err
	}
	kept := m.data[collection][:0]
	for _, rec := range m.data[collection] {
		if !matches(rec, match) {
			kept = append(kept, rec)
		}
	}
	m.data[collection] = kept
	return nil
}

func (m *Memory) Upsert(ctx context.Context, collection string, rec Row, conflictKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(collection); err != nil {
		return err
	}
	for i, existing := range m.data[collection] {
		if existing[conflictKey] == rec[conflictKey] {
			m.data[collection][i] = copyRow(rec)
			return nil
		}
	}
	m.data[collection] = append(m.data[collection], copyRow(rec))
	return nil
}

// Count returns the number of records in a collection. Test helper.
func (m *Memory) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data[collection])
}
