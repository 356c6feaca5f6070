package persistence

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a mutex-guarded map. Contents are lost on restart.
type MemoryStore[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore[V any]() *MemoryStore[V] {
	return &MemoryStore[V]{items: make(map[string]V)}
}

func (s *MemoryStore[V]) Get(_ context.Context, key string) (V, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// List returns values ordered by key.
func (s *MemoryStore[V]) List(_ context.Context) ([]V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.items, nil), nil
}

func (s *MemoryStore[V]) Update(ctx context.Context, fn func(tx Tx[V]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx[V]{base: s.items, writes: make(map[string]*V)}
	if err := fn(tx); err != nil {
		return err
	}
	for key, v := range tx.writes {
		if v == nil {
			delete(s.items, key)
			continue
		}
		s.items[key] = *v
	}
	return nil
}

// memoryTx stages writes over the locked map; a nil entry marks a removal.
type memoryTx[V any] struct {
	base   map[string]V
	writes map[string]*V
}

func (t *memoryTx[V]) Get(_ context.Context, key string) (V, bool, error) {
	if v, staged := t.writes[key]; staged {
		if v == nil {
			var zero V
			return zero, false, nil
		}
		return *v, true, nil
	}
	v, ok := t.base[key]
	return v, ok, nil
}

func (t *memoryTx[V]) Put(_ context.Context, key string, value V) error {
	t.writes[key] = &value
	return nil
}

func (t *memoryTx[V]) Remove(ctx context.Context, key string) (bool, error) {
	_, exists, _ := t.Get(ctx, key)
	if exists {
		t.writes[key] = nil
	}
	return exists, nil
}

func (t *memoryTx[V]) List(_ context.Context) ([]V, error) {
	return sortedValues(t.base, t.writes), nil
}

func sortedValues[V any](base map[string]V, writes map[string]*V) []V {
	keys := make([]string, 0, len(base)+len(writes))
	for k := range base {
		if _, staged := writes[k]; !staged {
			keys = append(keys, k)
		}
	}
	for k, v := range writes {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]V, 0, len(keys))
	for _, k := range keys {
		if v, staged := writes[k]; staged {
			out = append(out, *v)
			continue
		}
		out = append(out, base[k])
	}
	return out
}
