package single

import (
	"errors"
	"testing"

	"github.com/oarkflow/micromap"
)

func TestSingleMap_SetGetDel(t *testing.T) {
	m := New[string, int]()

	if err := m.Set("A", 1); err != nil {
		t.Fatalf("unexpected error on first set: %v", err)
	}
	if v, ok := m.Get("A"); !ok || v != 1 {
		t.Errorf("expected Get(A)=1, got %d, ok=%v", v, ok)
	}
	if m.Size() != 1 {
		t.Errorf("expected size 1, got %d", m.Size())
	}

	// Replacing the same key stays within capacity.
	if err := m.Set("A", 2); err != nil {
		t.Errorf("replace must not fail: %v", err)
	}

	if err := m.Set("B", 3); !errors.Is(err, micromap.ErrCapacityExceeded) {
		t.Errorf("expected capacity error for second key, got %v", err)
	}

	m.Del("A")
	if m.Size() != 0 {
		t.Errorf("expected empty map after delete, size=%d", m.Size())
	}
	if err := m.Set("B", 3); err != nil {
		t.Errorf("set after delete must succeed: %v", err)
	}
}

func TestSingleMap_CollectionAccessors(t *testing.T) {
	m := New[string, int]()
	m.Set("A", 1)

	if keys := m.Keys(); len(keys) != 1 || keys[0] != "A" {
		t.Errorf("unexpected keys %v", keys)
	}
	if vals := m.Values(); len(vals) != 1 || vals[0] != 1 {
		t.Errorf("unexpected values %v", vals)
	}
	if got := m.AsMap(); len(got) != 1 || got["A"] != 1 {
		t.Errorf("unexpected AsMap result %v", got)
	}

	count := 0
	m.ForEach(func(k string, v int) bool {
		count++
		return true
	})
	if count != 1 {
		t.Errorf("expected one iteration, got %d", count)
	}

	m.Clear()
	if m.Size() != 0 {
		t.Error("expected empty map after clear")
	}
}

func TestSingleMap_Clone(t *testing.T) {
	m := New[string, int]()
	m.Set("A", 1)

	clone := m.Clone()
	clone.Set("A", 2)

	if v, _ := m.Get("A"); v != 1 {
		t.Errorf("clone must be independent, original Get(A)=%d", v)
	}
	if v, _ := clone.Get("A"); v != 2 {
		t.Errorf("expected clone Get(A)=2, got %d", v)
	}
}
