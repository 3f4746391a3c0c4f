// Package micromap provides a map that can hold at most a single key/value
// pair. It is useful to control memory usage in object populations where the
// overwhelming majority of instances hold zero or one entries, making a full
// hash map wasteful.
package micromap

// MaxEntries is the maximum number of entries a Map supports.
const MaxEntries = 1

// Entry is a key/value pair, used for bulk inserts and view snapshots.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Map is a mapping with a fixed capacity of exactly one entry. The key and
// value occupy a single slot that is either fully empty or fully occupied;
// a key without a value is unrepresentable.
//
// A Map carries no internal synchronization. Callers that share one across
// goroutines must provide their own mutual exclusion.
type Map[K, V any] struct {
	slot  *Entry[K, V]
	keyEq func(K, K) bool
	valEq func(V, V) bool
}

// New returns an empty Map using == for key and value equality.
func New[K, V comparable]() *Map[K, V] {
	return &Map[K, V]{
		keyEq: func(a, b K) bool { return a == b },
		valEq: func(a, b V) bool { return a == b },
	}
}

// NewWithPair returns a Map already occupied by the given pair.
func NewWithPair[K, V comparable](key K, value V) *Map[K, V] {
	m := New[K, V]()
	m.slot = &Entry[K, V]{Key: key, Value: value}
	return m
}

// NewFunc returns an empty Map using the supplied equality functions. Both
// must be non-nil and total over their type. Use this for types whose
// identity is narrower than structural equality, such as terms.Concept.
func NewFunc[K, V any](keyEq func(K, K) bool, valEq func(V, V) bool) *Map[K, V] {
	if keyEq == nil || valEq == nil {
		panic("micromap: nil equality function")
	}
	return &Map[K, V]{keyEq: keyEq, valEq: valEq}
}

// Size returns the number of stored entries, 0 or 1.
func (m *Map[K, V]) Size() int {
	if m.slot != nil {
		return 1
	}
	return 0
}

// IsEmpty reports whether the slot is unoccupied.
func (m *Map[K, V]) IsEmpty() bool {
	return m.slot == nil
}

// Full reports whether the slot is occupied.
func (m *Map[K, V]) Full() bool {
	return m.Size() == MaxEntries
}

// ContainsKey reports whether the stored key equals key.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.slot != nil && m.keyEq(m.slot.Key, key)
}

// ContainsValue reports whether the stored value equals value.
func (m *Map[K, V]) ContainsValue(value V) bool {
	return m.slot != nil && m.valEq(m.slot.Value, value)
}

// Get returns the stored value if key matches the stored key. A miss is a
// normal outcome, reported through the boolean, never an error.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m.slot != nil && m.keyEq(m.slot.Key, key) {
		return m.slot.Value, true
	}
	var zero V
	return zero, false
}

// Put stores the pair. If key matches the stored key the value is replaced
// in place and the previous value returned with replaced == true. If the
// slot is empty it becomes occupied. If the slot holds a different key, Put
// returns ErrCapacityExceeded and leaves the map unchanged.
func (m *Map[K, V]) Put(key K, value V) (prev V, replaced bool, err error) {
	if m.slot != nil {
		if m.keyEq(m.slot.Key, key) {
			prev = m.slot.Value
			m.slot.Value = value
			return prev, true, nil
		}
		return prev, false, ErrCapacityExceeded
	}
	m.slot = &Entry[K, V]{Key: key, Value: value}
	return prev, false, nil
}

// Remove clears the slot if key matches the stored key and returns the
// removed value. A non-matching key leaves the map unchanged.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	if m.slot != nil && m.keyEq(m.slot.Key, key) {
		old := m.slot.Value
		m.slot = nil
		return old, true
	}
	var zero V
	return zero, false
}

// PutAll performs a bulk insert. Zero entries is a no-op. A single entry
// behaves exactly as Put. Two or more entries cannot fit and fail with a
// CapacityError before anything is mutated.
func (m *Map[K, V]) PutAll(entries ...Entry[K, V]) error {
	switch len(entries) {
	case 0:
		return nil
	case 1:
		_, _, err := m.Put(entries[0].Key, entries[0].Value)
		return err
	default:
		return &CapacityError{Attempted: len(entries)}
	}
}

// Clear unconditionally empties the slot. It never fails and is idempotent.
func (m *Map[K, V]) Clear() {
	m.slot = nil
}

// Clone returns an independent copy with the same slot contents and
// equality functions.
func (m *Map[K, V]) Clone() *Map[K, V] {
	clone := &Map[K, V]{keyEq: m.keyEq, valEq: m.valEq}
	if m.slot != nil {
		clone.slot = &Entry[K, V]{Key: m.slot.Key, Value: m.slot.Value}
	}
	return clone
}
