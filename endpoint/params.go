package endpoint

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/schema"
)

// Params is an ordered mapping from query-parameter name to value. The
// zero value is empty and ready to use.
type Params struct {
	keys   []string
	values map[string]string
}

// Set stores value under name. A new name is appended at the end; an
// existing name keeps its position.
func (p *Params) Set(name, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

// Get returns the value stored under name.
func (p Params) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Keys returns parameter names in insertion order.
func (p Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of parameters.
func (p Params) Len() int { return len(p.keys) }

// Map returns the parameters as a plain map.
func (p Params) Map() map[string]string {
	out := make(map[string]string, len(p.keys))
	for _, k := range p.keys {
		out[k] = p.values[k]
	}
	return out
}

// Values converts the parameters into url.Values, one value per key.
func (p Params) Values() url.Values {
	out := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// Encode renders the parameters as a query string, preserving order.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.values[k]))
	}
	return sb.String()
}

// Equal reports whether both mappings hold the same pairs in the same order.
func (p Params) Equal(other Params) bool {
	if len(p.keys) != len(other.keys) {
		return false
	}
	for i, k := range p.keys {
		if other.keys[i] != k || other.values[k] != p.values[k] {
			return false
		}
	}
	return true
}

// ParamValuer is implemented by enum and union types that render
// themselves as a single query-parameter value.
type ParamValuer interface {
	ParamValue() string
}

var paramValuerType = reflect.TypeOf((*ParamValuer)(nil)).Elem()

type paramCodec struct {
	encoder *schema.Encoder
	order   []string
}

var paramCodecs sync.Map // reflect.Type -> *paramCodec

// EncodeParams extracts query parameters from a struct tagged with
// `schema:"name,omitempty"`. Absent (nil or empty) fields are skipped,
// string lists are comma-joined, booleans and integers use their canonical
// text form. The result follows struct field order.
func EncodeParams(query any) (Params, error) {
	rv := reflect.ValueOf(query)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Params{}, fmt.Errorf("encode params: %T is not a struct", query)
	}
	pc := paramCodecFor(rv.Type())

	dst := make(map[string][]string)
	if err := pc.encoder.Encode(rv.Interface(), dst); err != nil {
		return Params{}, fmt.Errorf("encode params: %w", err)
	}

	var p Params
	for _, name := range pc.order {
		vals, ok := dst[name]
		if !ok || len(vals) == 0 {
			continue
		}
		p.Set(name, strings.Join(vals, ","))
	}
	return p, nil
}

func paramCodecFor(t reflect.Type) *paramCodec {
	if pc, ok := paramCodecs.Load(t); ok {
		return pc.(*paramCodec)
	}
	pc := newParamCodec(t)
	actual, _ := paramCodecs.LoadOrStore(t, pc)
	return actual.(*paramCodec)
}

func newParamCodec(t reflect.Type) *paramCodec {
	enc := schema.NewEncoder()
	enc.RegisterEncoder([]string(nil), encodeStringList)
	enc.RegisterEncoder((*string)(nil), encodeStringPtr)
	enc.RegisterEncoder((*bool)(nil), encodeBoolPtr)
	enc.RegisterEncoder((*int)(nil), encodeIntPtr)
	enc.RegisterEncoder((*int64)(nil), encodeIntPtr)
	enc.RegisterEncoder((*float64)(nil), encodeFloatPtr)

	order := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("schema"), ",")
		if name == "" || name == "-" || !f.IsExported() {
			continue
		}
		order = append(order, name)
		if f.Type.Implements(paramValuerType) {
			enc.RegisterEncoder(reflect.Zero(f.Type).Interface(), encodeParamValuer)
		}
	}
	return &paramCodec{encoder: enc, order: order}
}

func encodeStringList(v reflect.Value) string {
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = v.Index(i).String()
	}
	return strings.Join(parts, ",")
}

func encodeStringPtr(v reflect.Value) string {
	if v.IsNil() {
		return ""
	}
	return v.Elem().String()
}

func encodeBoolPtr(v reflect.Value) string {
	if v.IsNil() {
		return ""
	}
	return strconv.FormatBool(v.Elem().Bool())
}

func encodeIntPtr(v reflect.Value) string {
	if v.IsNil() {
		return ""
	}
	return strconv.FormatInt(v.Elem().Int(), 10)
}

func encodeFloatPtr(v reflect.Value) string {
	if v.IsNil() {
		return ""
	}
	return strconv.FormatFloat(v.Elem().Float(), 'f', -1, 64)
}

func encodeParamValuer(v reflect.Value) string {
	pv, ok := v.Interface().(ParamValuer)
	if !ok {
		return ""
	}
	return pv.ParamValue()
}
