// Package record holds the ordered column/value maps that queries return and
// eager loading decorates.
package record

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Record is a column -> value map that remembers insertion order.
type Record struct {
	keys []string
	vals map[string]any
}

func New(capacity int) *Record {
	return &Record{
		keys: make([]string, 0, capacity),
		vals: make(map[string]any, capacity),
	}
}

// FromMap builds a record with keys in lexical order.
func FromMap(m map[string]any) *Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := New(len(keys))
	for _, k := range keys {
		r.Set(k, m[k])
	}
	return r
}

// Set appends key, or replaces its value in place when already present.
func (r *Record) Set(key string, value any) {
	if r.vals == nil {
		r.vals = make(map[string]any)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = value
}

func (r *Record) Get(key string) (any, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Value returns the value stored under key or nil.
func (r *Record) Value(key string) any {
	return r.vals[key]
}

func (r *Record) Has(key string) bool {
	_, ok := r.vals[key]
	return ok
}

// Keys returns the keys in insertion order. The slice is a copy.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int {
	return len(r.keys)
}

// Each calls fn for every entry in order until fn returns false.
func (r *Record) Each(fn func(key string, value any) bool) {
	for _, k := range r.keys {
		if !fn(k, r.vals[k]) {
			return
		}
	}
}

// Map returns an unordered copy.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.vals))
	for k, v := range r.vals {
		out[k] = v
	}
	return out
}

// Clone copies the record. Values are shared.
func (r *Record) Clone() *Record {
	c := New(len(r.keys))
	for _, k := range r.keys {
		c.Set(k, r.vals[k])
	}
	return c
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
