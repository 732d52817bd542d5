package mirror

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
)

// ErrNotFound is returned when deleting a key that is not present.
var ErrNotFound = errors.New("not found")

// orderedMap is a keyed container that iterates in insertion order.
// Replacing an existing key keeps its original position.
type orderedMap[V any] struct {
	mu    sync.RWMutex
	keys  []int64
	items map[int64]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{items: make(map[int64]V)}
}

func (m *orderedMap[V]) set(id int64, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		m.keys = append(m.keys, id)
	}
	m.items[id] = v
}

func (m *orderedMap[V]) get(id int64) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[id]
	return v, ok
}

func (m *orderedMap[V]) delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	delete(m.items, id)
	m.keys = slices.DeleteFunc(m.keys, func(k int64) bool { return k == id })
	return nil
}

func (m *orderedMap[V]) has(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[id]
	return ok
}

func (m *orderedMap[V]) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// all iterates over a snapshot, so the map may be modified while iterating.
func (m *orderedMap[V]) all() iter.Seq2[int64, V] {
	m.mu.RLock()
	keys := slices.Clone(m.keys)
	values := make([]V, len(keys))
	for i, k := range keys {
		values[i] = m.items[k]
	}
	m.mu.RUnlock()

	return func(yield func(int64, V) bool) {
		for i, k := range keys {
			if !yield(k, values[i]) {
				return
			}
		}
	}
}
