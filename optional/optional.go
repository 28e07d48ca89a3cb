// Package optional contains a value that may be absent.
//
// Request and query types use [Value] for every optional field so that
// "not set" is never confused with "set to the zero value".
package optional

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
)

// ErrNone is the panic value of [Value.Unwrap] on an absent value.
var ErrNone = errors.New("is none")

// Value is an optional value. The zero value is absent.
type Value[T any] struct {
	indirect *T
}

// None constructs an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Some constructs a present Value. A nil pointer, map, slice or interface
// produces an absent Value.
func Some[T any](value T) Value[T] {
	if isNil(value) {
		return None[T]()
	}
	return Value[T]{indirect: &value}
}

// FromPtr constructs a Value from a pointer; nil is absent.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

func isNil(value any) bool {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// IsNone reports whether the value is absent.
func (v Value[T]) IsNone() bool {
	return v.indirect == nil
}

// IsSome reports whether the value is present.
func (v Value[T]) IsSome() bool {
	return v.indirect != nil
}

// Unwrap returns the underlying value and panics with [ErrNone] when absent.
func (v Value[T]) Unwrap() T {
	if v.indirect == nil {
		panic(ErrNone)
	}
	return *v.indirect
}

// UnwrapOr returns the underlying value or def when absent.
func (v Value[T]) UnwrapOr(def T) T {
	if v.indirect == nil {
		return def
	}
	return *v.indirect
}

// Get returns the value and whether it is present.
func (v Value[T]) Get() (T, bool) {
	if v.indirect == nil {
		var zero T
		return zero, false
	}
	return *v.indirect, true
}

// Ptr returns a copy of the value as a pointer, or nil when absent.
func (v Value[T]) Ptr() *T {
	if v.indirect == nil {
		return nil
	}
	out := *v.indirect
	return &out
}

// IsZero reports absence; encoders honouring omitempty use it.
func (v Value[T]) IsZero() bool {
	return v.IsNone()
}

var jsonNull = []byte("null")

// MarshalJSON implements json.Marshaler. An absent value encodes as null.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if v.indirect == nil {
		return jsonNull, nil
	}
	return json.Marshal(*v.indirect)
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null yields an absent value.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*v = None[T]()
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*v = Some(value)
	return nil
}
