package micromap

// The three views are live projections over the backing slot, not copies.
// They stay valid while the Map is alive and observe later mutations.

// Keys returns a live view over the stored key.
func (m *Map[K, V]) Keys() KeyView[K, V] {
	return KeyView[K, V]{m: m}
}

// Values returns a live positional view over the stored value.
func (m *Map[K, V]) Values() ValueView[K, V] {
	return ValueView[K, V]{m: m}
}

// Entries returns a live view over the stored entry.
func (m *Map[K, V]) Entries() EntryView[K, V] {
	return EntryView[K, V]{m: m}
}

// KeyView projects the key of the backing Map.
type KeyView[K, V any] struct {
	m *Map[K, V]
}

func (v KeyView[K, V]) Len() int { return v.m.Size() }

func (v KeyView[K, V]) Contains(key K) bool { return v.m.ContainsKey(key) }

// ForEach calls fn for the stored key, if any. fn returning false stops the
// iteration, mirroring the other collection types in this module.
func (v KeyView[K, V]) ForEach(fn func(K) bool) {
	if v.m.slot != nil {
		fn(v.m.slot.Key)
	}
}

// Slice returns the keys as a slice of length Len.
func (v KeyView[K, V]) Slice() []K {
	if v.m.slot == nil {
		return nil
	}
	return []K{v.m.slot.Key}
}

// Clear removes the view's only possible element, which empties the whole
// backing map.
func (v KeyView[K, V]) Clear() {
	v.m.Clear()
}

// ValueView projects the value of the backing Map as a positional
// collection. Every position, and there is at most one, yields the stored
// value.
type ValueView[K, V any] struct {
	m *Map[K, V]
}

func (v ValueView[K, V]) Len() int { return v.m.Size() }

func (v ValueView[K, V]) Contains(value V) bool { return v.m.ContainsValue(value) }

func (v ValueView[K, V]) ForEach(fn func(V) bool) {
	if v.m.slot != nil {
		fn(v.m.slot.Value)
	}
}

// At returns the value at position i. Positions at or beyond Len report
// false.
func (v ValueView[K, V]) At(i int) (V, bool) {
	if i >= 0 && i < v.m.Size() {
		return v.m.slot.Value, true
	}
	var zero V
	return zero, false
}

func (v ValueView[K, V]) Slice() []V {
	if v.m.slot == nil {
		return nil
	}
	return []V{v.m.slot.Value}
}

// EntryView projects the single entry of the backing Map.
type EntryView[K, V any] struct {
	m *Map[K, V]
}

func (v EntryView[K, V]) Len() int { return v.m.Size() }

// First returns a reference to the stored entry, or false when empty.
func (v EntryView[K, V]) First() (*EntryRef[K, V], bool) {
	if v.m.slot == nil {
		return nil, false
	}
	return &EntryRef[K, V]{m: v.m, key: v.m.slot.Key}, true
}

func (v EntryView[K, V]) ForEach(fn func(*EntryRef[K, V]) bool) {
	if ref, ok := v.First(); ok {
		fn(ref)
	}
}

// Slice returns a snapshot copy of the entries. Mutating the snapshot does
// not affect the map; use EntryRef.SetValue for write-through access.
func (v EntryView[K, V]) Slice() []Entry[K, V] {
	if v.m.slot == nil {
		return nil
	}
	return []Entry[K, V]{*v.m.slot}
}

// EntryRef exposes get/set access to the entry it was obtained for. SetValue
// writes through to the backing slot.
type EntryRef[K, V any] struct {
	m   *Map[K, V]
	key K
}

func (r *EntryRef[K, V]) Key() K { return r.key }

func (r *EntryRef[K, V]) Value() V {
	v, _ := r.m.Get(r.key)
	return v
}

// SetValue replaces the backing value and returns the previous one. It goes
// through the same mutation path as a direct Put so the slot invariant
// holds. A stale ref, whose key no longer occupies the slot, behaves like
// Put: it re-occupies an empty slot, and returns ErrCapacityExceeded when a
// different key holds it.
func (r *EntryRef[K, V]) SetValue(value V) (V, error) {
	prev, _, err := r.m.Put(r.key, value)
	return prev, err
}
