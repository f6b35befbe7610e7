// Package orderedmap provides a map that remembers insertion order.
//
// Every collection held by the evaluation session is a Map so that iteration
// is deterministic. Deleting a key and setting it again moves the entry to the
// end, which the session uses to push disabled sub-skills behind enabled ones.
package orderedmap

import (
	"iter"
	"slices"
)

// Entry is a key/value pair as stored in a Map.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an insertion-ordered map. The zero value is not usable; call New.
type Map[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// New creates a Map seeded with the given entries, in order. A repeated key
// keeps its first position and its last value.
func New[K comparable, V any](entries ...Entry[K, V]) *Map[K, V] {
	m := &Map[K, V]{
		keys:   make([]K, 0, len(entries)),
		values: make(map[K]V, len(entries)),
	}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Set stores value under key. An existing key keeps its position.
func (m *Map[K, V]) Set(key K, value V) *Map[K, V] {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Delete removes key. Deleting a missing key is a no-op.
func (m *Map[K, V]) Delete(key K) *Map[K, V] {
	if _, ok := m.values[key]; !ok {
		return m
	}
	delete(m.values, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
	return m
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// Values returns the values in insertion order.
func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

// Entries returns the key/value pairs in insertion order.
func (m *Map[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Entry[K, V]{Key: k, Value: m.values[k]})
	}
	return out
}

// All iterates over the entries in insertion order. The map must not be
// modified during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy: a new container sharing the same values.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return m.CloneFunc(nil)
}

// CloneFunc returns a copy where every value is passed through copyValue.
// A nil copyValue produces a shallow copy.
func (m *Map[K, V]) CloneFunc(copyValue func(V) V) *Map[K, V] {
	out := &Map[K, V]{
		keys:   slices.Clone(m.keys),
		values: make(map[K]V, len(m.values)),
	}
	for k, v := range m.values {
		if copyValue != nil {
			v = copyValue(v)
		}
		out.values[k] = v
	}
	return out
}
