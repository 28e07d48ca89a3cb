package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Member is one name/value pair of a JSON object, in document order.
type Member struct {
	Name  string
	Value json.RawMessage
}

// ReadObject splits a JSON object into its members, keeping their order.
func ReadObject(data []byte) ([]Member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrShape, describe(tok))
	}
	var out []Member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected member name, got %s", ErrShape, describe(tok))
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("member %q: %w", name, err)
		}
		out = append(out, Member{Name: name, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadSingleKey returns the only member of a single-key object.
func ReadSingleKey(data []byte) (Member, error) {
	members, err := ReadObject(data)
	if err != nil {
		return Member{}, err
	}
	if len(members) != 1 {
		return Member{}, fmt.Errorf("%w: expected a single key, got %d", ErrShape, len(members))
	}
	return members[0], nil
}

// WriteSingleKey wraps body as {"key": body}.
func WriteSingleKey(key string, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeKey(&buf, key); err != nil {
		return nil, err
	}
	buf.Write(body)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// IsObject reports whether raw holds a JSON object.
func IsObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// IsNull reports whether raw holds JSON null.
func IsNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// writeKey writes `{"key":`.
func writeKey(buf *bytes.Buffer, key string) error {
	name, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.WriteByte('{')
	buf.Write(name)
	buf.WriteByte(':')
	return nil
}

func describe(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		return "'" + t.String() + "'"
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "number"
	}
}
