// Package single adapts the bounded single-entry map to the storage.IMap
// contract so it can stand in wherever the module expects a generic map.
// Set surfaces micromap.ErrCapacityExceeded on the second distinct key.
package single

import (
	"github.com/oarkflow/micromap"
	"github.com/oarkflow/micromap/storage"
)

var _ storage.IMap[string, any] = (*Map[string, any])(nil)

// Map wraps a micromap.Map behind storage.IMap. Like the container it
// wraps, it carries no internal synchronization.
type Map[K comparable, V any] struct {
	m *micromap.Map[K, V]
}

// New creates an empty single-entry Map.
func New[K, V comparable]() *Map[K, V] {
	return &Map[K, V]{m: micromap.New[K, V]()}
}

// NewFunc creates an empty single-entry Map with caller-supplied equality.
func NewFunc[K comparable, V any](keyEq func(K, K) bool, valEq func(V, V) bool) *Map[K, V] {
	return &Map[K, V]{m: micromap.NewFunc[K, V](keyEq, valEq)}
}

func (s *Map[K, V]) Get(key K) (V, bool) {
	return s.m.Get(key)
}

// Set stores the pair, failing with micromap.ErrCapacityExceeded when the
// slot already holds a different key.
func (s *Map[K, V]) Set(key K, value V) error {
	_, _, err := s.m.Put(key, value)
	return err
}

func (s *Map[K, V]) Del(key K) {
	s.m.Remove(key)
}

func (s *Map[K, V]) ForEach(fn func(K, V) bool) {
	s.m.Entries().ForEach(func(ref *micromap.EntryRef[K, V]) bool {
		return fn(ref.Key(), ref.Value())
	})
}

func (s *Map[K, V]) Clear() {
	s.m.Clear()
}

func (s *Map[K, V]) Size() int {
	return s.m.Size()
}

func (s *Map[K, V]) Keys() []K {
	return s.m.Keys().Slice()
}

func (s *Map[K, V]) Values() []V {
	return s.m.Values().Slice()
}

func (s *Map[K, V]) AsMap() map[K]V {
	result := make(map[K]V, s.m.Size())
	s.ForEach(func(k K, v V) bool {
		result[k] = v
		return true
	})
	return result
}

// Clone creates a copy with the same slot contents and equality functions.
func (s *Map[K, V]) Clone() storage.IMap[K, V] {
	return &Map[K, V]{m: s.m.Clone()}
}
