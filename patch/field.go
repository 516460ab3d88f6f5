// Package patch provides Field, a JSON field wrapper for partial updates that
// tells apart "absent", "explicit null" and "a value".
package patch

import (
	"bytes"
	"encoding/json"
)

// Field records whether a JSON key was present in a request body and whether it
// was null. The zero value means the key was absent.
type Field[T any] struct {
	Set   bool // The key appeared in the payload.
	Null  bool // The key appeared with a JSON null.
	Value T
}

// UnmarshalJSON implements json.Unmarshaler. encoding/json calls it for null too,
// which is what lets Null be recorded.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// HasValue reports whether the key was present with a non-null value.
func (f Field[T]) HasValue() bool {
	return f.Set && !f.Null
}

// Ptr returns nil for an explicit null and a pointer to the value otherwise.
// Only meaningful when Set is true.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}
