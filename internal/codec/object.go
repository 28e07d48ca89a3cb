// Package codec serializes request and query objects from a declarative
// property table shared by the encoder and the decoder.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/osclient/optional"
)

// Property is one JSON member of objects of type T, decoded through
// builders of type B.
type Property[T, B any] struct {
	name   string
	encode func(T) (any, bool)
	decode func(*B, json.RawMessage) error
}

// Name returns the wire name.
func (p Property[T, B]) Name() string { return p.name }

// Prop declares an optional member: emitted only when present.
func Prop[T, B, V any](name string, get func(T) optional.Value[V], set func(*B, V) *B) Property[T, B] {
	return Property[T, B]{
		name: name,
		encode: func(obj T) (any, bool) {
			v, ok := get(obj).Get()
			return v, ok
		},
		decode: decodeInto(set),
	}
}

// Required declares a member that is always emitted.
func Required[T, B, V any](name string, get func(T) V, set func(*B, V) *B) Property[T, B] {
	return Property[T, B]{
		name: name,
		encode: func(obj T) (any, bool) {
			return get(obj), true
		},
		decode: decodeInto(set),
	}
}

// List declares a list member: emitted only when non-empty.
func List[T, B, V any](name string, get func(T) []V, set func(*B, []V) *B) Property[T, B] {
	return Property[T, B]{
		name: name,
		encode: func(obj T) (any, bool) {
			v := get(obj)
			return v, len(v) > 0
		},
		decode: decodeInto(set),
	}
}

func decodeInto[B, V any](set func(*B, V) *B) func(*B, json.RawMessage) error {
	return func(b *B, raw json.RawMessage) error {
		var v V
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		set(b, v)
		return nil
	}
}

type keyProp[T, B any] struct {
	get func(T) string
	set func(*B, string) *B
}

// Object is the codec of one object type. Build it once at package level
// and share it.
type Object[T, B any] struct {
	typeName   string
	newBuilder func() *B
	build      func(*B) (T, error)
	props      []Property[T, B]
	index      map[string]int
	key        *keyProp[T, B]
	shortcut   string
}

// NewObject starts a codec. newBuilder returns a fresh builder and build
// validates it into the immutable object.
func NewObject[T, B any](typeName string, newBuilder func() *B, build func(*B) (T, error)) *Object[T, B] {
	return &Object[T, B]{
		typeName:   typeName,
		newBuilder: newBuilder,
		build:      build,
		index:      make(map[string]int),
	}
}

// Add appends properties. Inherited (base) properties are added first so
// they are emitted first.
func (o *Object[T, B]) Add(props ...Property[T, B]) *Object[T, B] {
	for _, p := range props {
		if _, dup := o.index[p.name]; dup {
			panic(fmt.Sprintf("codec: %s: duplicate property %q", o.typeName, p.name))
		}
		o.index[p.name] = len(o.props)
		o.props = append(o.props, p)
	}
	return o
}

// WithKey nests the whole object under a key taken from a field value:
// {"<field>": {...}}.
func (o *Object[T, B]) WithKey(get func(T) string, set func(*B, string) *B) *Object[T, B] {
	o.key = &keyProp[T, B]{get: get, set: set}
	return o
}

// WithShortcut lets {"<field>": <scalar>} populate the named property.
// Only meaningful together with WithKey.
func (o *Object[T, B]) WithShortcut(name string) *Object[T, B] {
	if _, ok := o.index[name]; !ok {
		panic(fmt.Sprintf("codec: %s: shortcut %q is not a property", o.typeName, name))
	}
	o.shortcut = name
	return o
}

// TypeName returns the name used in errors.
func (o *Object[T, B]) TypeName() string { return o.typeName }

// PropertyNames lists wire names in emission order.
func (o *Object[T, B]) PropertyNames() []string {
	out := make([]string, len(o.props))
	for i, p := range o.props {
		out[i] = p.name
	}
	return out
}

// Encode serializes obj, members in table order.
func (o *Object[T, B]) Encode(obj T) ([]byte, error) {
	var buf bytes.Buffer
	if o.key != nil {
		if err := writeKey(&buf, o.key.get(obj)); err != nil {
			return nil, &EncodeError{Type: o.typeName, Key: "<key>", Err: err}
		}
	}
	buf.WriteByte('{')
	first := true
	for _, p := range o.props {
		v, ok := p.encode(obj)
		if !ok {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, &EncodeError{Type: o.typeName, Key: p.name, Err: err}
		}
		name, _ := json.Marshal(p.name)
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	buf.WriteByte('}')
	if o.key != nil {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// Decode parses data with a fresh builder and builds the object.
func (o *Object[T, B]) Decode(data []byte) (T, error) {
	var zero T
	b := o.newBuilder()
	if err := o.DecodeInto(b, data); err != nil {
		return zero, err
	}
	obj, err := o.build(b)
	if err != nil {
		return zero, &DecodeError{Type: o.typeName, Err: err}
	}
	return obj, nil
}

// DecodeInto applies the members of data to an existing builder.
func (o *Object[T, B]) DecodeInto(b *B, data []byte) error {
	if o.key == nil {
		return o.decodeMembers(b, data)
	}
	m, err := ReadSingleKey(data)
	if err != nil {
		return &DecodeError{Type: o.typeName, Err: err}
	}
	o.key.set(b, m.Name)
	if IsObject(m.Value) {
		return o.decodeMembers(b, m.Value)
	}
	if o.shortcut == "" {
		return &DecodeError{Type: o.typeName, Key: m.Name, Err: fmt.Errorf("%w: expected object", ErrShape)}
	}
	return o.decodeProperty(b, o.shortcut, m.Value)
}

func (o *Object[T, B]) decodeMembers(b *B, data []byte) error {
	members, err := ReadObject(data)
	if err != nil {
		return &DecodeError{Type: o.typeName, Err: err}
	}
	for _, m := range members {
		if err := o.decodeProperty(b, m.Name, m.Value); err != nil {
			return err
		}
	}
	return nil
}

func (o *Object[T, B]) decodeProperty(b *B, name string, raw json.RawMessage) error {
	i, ok := o.index[name]
	if !ok {
		return &DecodeError{Type: o.typeName, Key: name, Err: ErrUnknownProperty}
	}
	if IsNull(raw) {
		return nil
	}
	if err := o.props[i].decode(b, raw); err != nil {
		return &DecodeError{Type: o.typeName, Key: name, Err: err}
	}
	return nil
}
