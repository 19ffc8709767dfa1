package tables

import (
	"bytes"
	"encoding/json"
	"iter"
)

// OrderedMap is a string-keyed map that iterates in insertion order. Record
// keys are zipped with grid columns by position, so their order is part of
// the result rather than a presentation detail.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap creates an empty map with room for size entries.
func NewOrderedMap[V any](size int) *OrderedMap[V] {
	return &OrderedMap[V]{
		keys:   make([]string, 0, size),
		values: make(map[string]V, size),
	}
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (m *OrderedMap[V]) Set(key string, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// All iterates over the entries in insertion order.
func (m *OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Map returns a plain Go map holding the same entries.
func (m *OrderedMap[V]) Map() map[string]V {
	out := make(map[string]V, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
// HTML characters are not escaped.
func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeValue(&buf, m.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeValue appends the JSON encoding of v without a trailing newline.
func encodeValue(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
