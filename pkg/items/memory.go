package items

import (
	"context"
	"sync"
)

// MemoryBackend keeps every record in order. Used by tests and dry runs.
type MemoryBackend struct {
	mu      sync.Mutex
	records []Record
	byID    map[string]Record
	// FailWith, when set, is returned by Write.
	FailWith error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{byID: make(map[string]Record)}
}

func (m *MemoryBackend) Write(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, r := range records {
		m.records = append(m.records, r)
		m.byID[r.ID] = r
	}
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

func (m *MemoryBackend) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

func (m *MemoryBackend) ByKind(kind Kind) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, r := range m.records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func (m *MemoryBackend) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	return r, ok
}
