package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldValueKind tags the variant held by a FieldValue.
type FieldValueKind int

// Field value kinds.
const (
	FieldValueNull FieldValueKind = iota
	FieldValueString
	FieldValueLong
	FieldValueDouble
	FieldValueBool
)

func (k FieldValueKind) String() string {
	switch k {
	case FieldValueNull:
		return "null"
	case FieldValueString:
		return "string"
	case FieldValueLong:
		return "long"
	case FieldValueDouble:
		return "double"
	case FieldValueBool:
		return "boolean"
	default:
		return "FieldValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// FieldValue is a scalar compared against document fields. The zero value is null.
type FieldValue struct {
	kind FieldValueKind
	s    string
	l    int64
	d    float64
	b    bool
}

// StringValue wraps a string.
func StringValue(s string) FieldValue { return FieldValue{kind: FieldValueString, s: s} }

// LongValue wraps an integer.
func LongValue(l int64) FieldValue { return FieldValue{kind: FieldValueLong, l: l} }

// DoubleValue wraps a floating point number.
func DoubleValue(d float64) FieldValue { return FieldValue{kind: FieldValueDouble, d: d} }

// BoolValue wraps a boolean.
func BoolValue(b bool) FieldValue { return FieldValue{kind: FieldValueBool, b: b} }

// NullValue is the explicit null.
func NullValue() FieldValue { return FieldValue{} }

// Kind returns the variant tag.
func (v FieldValue) Kind() FieldValueKind { return v.kind }

// Str returns the string variant.
func (v FieldValue) Str() (string, bool) { return v.s, v.kind == FieldValueString }

// Long returns the integer variant.
func (v FieldValue) Long() (int64, bool) { return v.l, v.kind == FieldValueLong }

// Double returns the floating point variant.
func (v FieldValue) Double() (float64, bool) { return v.d, v.kind == FieldValueDouble }

// Bool returns the boolean variant.
func (v FieldValue) Bool() (bool, bool) { return v.b, v.kind == FieldValueBool }

// String renders the value the way it appears in query text.
func (v FieldValue) String() string {
	switch v.kind {
	case FieldValueString:
		return v.s
	case FieldValueLong:
		return strconv.FormatInt(v.l, 10)
	case FieldValueDouble:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	case FieldValueBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// Any returns the value as a plain Go value (nil for null).
func (v FieldValue) Any() any {
	switch v.kind {
	case FieldValueString:
		return v.s
	case FieldValueLong:
		return v.l
	case FieldValueDouble:
		return v.d
	case FieldValueBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON accepts any JSON scalar. Integral numbers become longs.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = NullValue()
	case string:
		*v = StringValue(x)
	case bool:
		*v = BoolValue(x)
	case json.Number:
		if l, err := x.Int64(); err == nil {
			*v = LongValue(l)
			return nil
		}
		d, err := x.Float64()
		if err != nil {
			return fmt.Errorf("field value: %w", err)
		}
		*v = DoubleValue(d)
	default:
		return fmt.Errorf("field value must be a scalar, got %T", raw)
	}
	return nil
}
