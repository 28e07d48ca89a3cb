package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProperty signals a JSON member with no matching property.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrShape signals JSON whose structure does not fit the object.
	ErrShape = errors.New("unexpected JSON shape")
)

// DecodeError reports where a JSON document failed to decode.
type DecodeError struct {
	Type string
	// Key is the offending member; empty when the object as a whole failed.
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("codec: decode %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("codec: decode %s: property %q: %v", e.Type, e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a property that failed to serialize.
type EncodeError struct {
	Type string
	Key  string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("codec: encode %s: property %q: %v", e.Type, e.Key, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
