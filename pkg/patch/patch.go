// Package patch implements presence-aware optional fields for partial
// updates. A field decoded from JSON remembers whether its key was
// present at all, so "key omitted" (keep the old value) and "key set to
// null" (clear the field) stay distinguishable. A plain pointer cannot
// express that difference.
package patch

import "encoding/json"

// Field wraps a value that may be absent, null, or set in a JSON body.
// The zero Field means the key was not present.
type Field[T any] struct {
	Value T
	Set   bool // key was present in the payload
	Null  bool // key was present and explicitly null
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Apply overwrites *dst according to the field's state: an absent field
// is a no-op, a null field clears *dst to nil, and a set field replaces
// it.
func (f Field[T]) Apply(dst **T) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}
