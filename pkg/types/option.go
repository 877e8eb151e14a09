package types

import (
	"bytes"
	"encoding/json"
)

// Option holds a value that may be absent. It replaces nil pointers and empty
// strings for fields whose absence carries meaning, such as a provision's
// chapter or a version's end date.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, ok: true}
}

// None returns an absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// SomeIfNonEmpty returns Some(s) for a non-empty string and None otherwise.
func SomeIfNonEmpty(s string) Option[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.ok
}

// IsNone reports whether the value is absent.
func (o Option[T]) IsNone() bool {
	return !o.ok
}

// OrElse returns the value if present, otherwise fallback.
func (o Option[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// MarshalJSON encodes None as null.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as None.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*o = Some(value)
	return nil
}

// MarshalYAML encodes None as null.
func (o Option[T]) MarshalYAML() (interface{}, error) {
	if !o.ok {
		return nil, nil
	}
	return o.value, nil
}

// Ptr returns a pointer to a copy of the value, or nil for None.
func (o Option[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.value
	return &v
}

// FromPtr converts a nullable pointer into an Option.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}
