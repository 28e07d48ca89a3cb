package osclient

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

const tagKey = "osclient"

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ reflect.Type

	idIdx      int
	routingIdx int // -1 if not present
}

// parseSchema reflects on T and extracts osclient struct tag metadata.
// The document source is T's JSON encoding; tags only mark the fields
// that map to the document id and routing key.
func parseSchema[T any]() (*schemaMeta, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("osclient: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1, routingIdx: -1}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	if meta.idIdx == -1 {
		return nil, fmt.Errorf("osclient: no field with `osclient:\"id\"` tag in %s", t)
	}
	return meta, nil
}

// applyTag processes a single struct field's osclient tag.
func applyTag(meta *schemaMeta, idx int, f reflect.StructField, tag string) error {
	if !f.IsExported() {
		return fmt.Errorf("osclient: tagged field %s is not exported", f.Name)
	}
	switch tag {
	case "id":
		if meta.idIdx != -1 {
			return fmt.Errorf("osclient: duplicate id tag on field %s", f.Name)
		}
		if !isIDKind(f.Type.Kind()) {
			return fmt.Errorf("osclient: id field %s must be a string or integer, got %s", f.Name, f.Type)
		}
		meta.idIdx = idx
	case "routing":
		if meta.routingIdx != -1 {
			return fmt.Errorf("osclient: duplicate routing tag on field %s", f.Name)
		}
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("osclient: routing field %s must be a string, got %s", f.Name, f.Type)
		}
		meta.routingIdx = idx
	default:
		return fmt.Errorf("osclient: unknown tag %q on field %s", tag, f.Name)
	}
	return nil
}

func isIDKind(k reflect.Kind) bool {
	switch k {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// id renders the id field of item. Zero numeric ids and empty strings
// mean "let the server assign one".
func (m *schemaMeta) id(item any) string {
	v := reflect.Indirect(reflect.ValueOf(item)).Field(m.idIdx)
	if v.IsZero() {
		return ""
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return strconv.FormatInt(v.Int(), 10)
	}
}

func (m *schemaMeta) routing(item any) string {
	if m.routingIdx == -1 {
		return ""
	}
	return reflect.Indirect(reflect.ValueOf(item)).Field(m.routingIdx).String()
}

// decode unmarshals a document source into a new T-shaped value and sets
// its id and routing fields from the response metadata.
func (m *schemaMeta) decode(source json.RawMessage, id, routing string) (any, error) {
	ptr := reflect.New(m.typ)
	if err := json.Unmarshal(source, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}
	v := ptr.Elem()
	if err := setID(v.Field(m.idIdx), id); err != nil {
		return nil, err
	}
	if m.routingIdx != -1 && routing != "" {
		v.Field(m.routingIdx).SetString(routing)
	}
	return v.Interface(), nil
}

func setID(v reflect.Value, id string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(id)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(id, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("osclient: id %q does not fit %s: %w", id, v.Type(), err)
		}
		v.SetUint(n)
	default:
		n, err := strconv.ParseInt(id, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("osclient: id %q does not fit %s: %w", id, v.Type(), err)
		}
		v.SetInt(n)
	}
	return nil
}
