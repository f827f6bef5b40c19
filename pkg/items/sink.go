package items

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/LegumeFederation/intermine-legfed/pkg/loaderr"
)

// Sink is the contract the extraction engine writes through.
type Sink interface {
	// Create allocates an item of the given kind. It is not persisted until stored.
	Create(kind Kind) *Item
	// Store persists items. Storing an already stored instance is a no-op.
	Store(ctx context.Context, items ...*Item) error
}

// Backend receives batches of newly stored items.
type Backend interface {
	Write(ctx context.Context, records []Record) error
	Close() error
}

var _ Sink = (*Store)(nil)

// Store hands out run-scoped identifiers and forwards each item to the backend exactly once.
type Store struct {
	backend Backend
	runID   string
	prefix  string

	mu      sync.Mutex
	seq     int
	stored  map[*Item]struct{}
	created map[Kind]int
	written map[Kind]int
}

func NewStore(backend Backend) *Store {
	runID := uuid.New().String()
	return &Store{
		backend: backend,
		runID:   runID,
		prefix:  runID[:8],
		stored:  make(map[*Item]struct{}),
		created: make(map[Kind]int),
		written: make(map[Kind]int),
	}
}

// RunID identifies this load; item identifiers are prefixed with its first segment.
func (s *Store) RunID() string { return s.runID }

func (s *Store) Create(kind Kind) *Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.created[kind]++
	return newItem(kind, fmt.Sprintf("%s_%d", s.prefix, s.seq))
}

func (s *Store) Store(ctx context.Context, items ...*Item) error {
	s.mu.Lock()
	batch := make([]Record, 0, len(items))
	fresh := make([]*Item, 0, len(items))
	seen := make(map[*Item]struct{}, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, ok := s.stored[it]; ok {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		fresh = append(fresh, it)
		batch = append(batch, it.Record())
	}
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := s.backend.Write(ctx, batch); err != nil {
		return &loaderr.PersistenceError{Op: fmt.Sprintf("store %d %s item(s)", len(batch), batch[0].Kind), Err: err}
	}

	s.mu.Lock()
	for _, it := range fresh {
		s.stored[it] = struct{}{}
		s.written[it.Kind]++
	}
	s.mu.Unlock()
	return nil
}

// IsStored reports whether the item has been handed to the backend.
func (s *Store) IsStored(it *Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.stored[it]
	return ok
}

// Created returns how many items of each kind were allocated.
func (s *Store) Created() map[Kind]int {
	return s.copyCounts(s.created)
}

// Written returns how many items of each kind reached the backend.
func (s *Store) Written() map[Kind]int {
	return s.copyCounts(s.written)
}

func (s *Store) copyCounts(src map[Kind]int) map[Kind]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Kind]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func (s *Store) Close() error {
	if err := s.backend.Close(); err != nil {
		return &loaderr.PersistenceError{Op: "close backend", Err: err}
	}
	return nil
}
