package storage

// IMap is the module's generic mapping contract. Set is fallible so that
// capacity-bounded implementations can participate alongside unbounded ones;
// unbounded implementations always return a nil error.
type IMap[K comparable, V any] interface {
	Get(K) (V, bool)
	Set(K, V) error
	Del(K)
	ForEach(func(K, V) bool)
	Clear()
	Size() int
	Keys() []K
	Values() []V
	AsMap() map[K]V
	Clone() IMap[K, V]
}
