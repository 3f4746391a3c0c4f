package memory

import (
	"sync"

	"github.com/oarkflow/micromap/storage"
)

var _ storage.IMap[string, any] = (*Map[string, any])(nil)

// Map is an unbounded, thread-safe map guarded by a RWMutex. It is the
// general-purpose alternative for callers that outgrow the single-entry
// container.
type Map[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// New creates an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Get retrieves the value stored under key.
func (g *Map[K, V]) Get(key K) (V, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	val, ok := g.m[key]
	return val, ok
}

// Set stores the pair. It never fails.
func (g *Map[K, V]) Set(key K, value V) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.m[key] = value
	return nil
}

// GetOrSet returns the value already stored under key, or stores value and
// returns it. The boolean reports whether the key was already present. The
// check and the insert happen under one lock.
func (g *Map[K, V]) GetOrSet(key K, value V) (V, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.m[key]; ok {
		return existing, true
	}
	g.m[key] = value
	return value, false
}

// Del removes the pair stored under key.
func (g *Map[K, V]) Del(key K) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.m, key)
}

// ForEach iterates over a snapshot of the map. fn returning false stops the
// iteration.
func (g *Map[K, V]) ForEach(fn func(K, V) bool) {
	for k, v := range g.AsMap() {
		if !fn(k, v) {
			return
		}
	}
}

// Clear removes every pair.
func (g *Map[K, V]) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.m = make(map[K]V)
}

// Size returns the number of stored pairs.
func (g *Map[K, V]) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.m)
}

// Keys returns a slice of all keys.
func (g *Map[K, V]) Keys() []K {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]K, 0, len(g.m))
	for k := range g.m {
		keys = append(keys, k)
	}
	return keys
}

// Values returns a slice of all values.
func (g *Map[K, V]) Values() []V {
	g.mu.RLock()
	defer g.mu.RUnlock()
	values := make([]V, 0, len(g.m))
	for _, v := range g.m {
		values = append(values, v)
	}
	return values
}

// AsMap returns a copy of the contents as a regular map.
func (g *Map[K, V]) AsMap() map[K]V {
	g.mu.RLock()
	defer g.mu.RUnlock()
	result := make(map[K]V, len(g.m))
	for k, v := range g.m {
		result[k] = v
	}
	return result
}

// Clone creates a shallow copy.
func (g *Map[K, V]) Clone() storage.IMap[K, V] {
	clone := New[K, V]()
	for k, v := range g.AsMap() {
		clone.m[k] = v
	}
	return clone
}
