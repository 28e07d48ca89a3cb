package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/osclient/optional"
)

// SourceConfigParam is the `_source` query parameter: either a flag that
// turns source retrieval on or off, or a list of fields to return.
type SourceConfigParam struct {
	fetch  optional.Value[bool]
	fields []string
}

// SourceFetch selects or suppresses the document source.
func SourceFetch(fetch bool) SourceConfigParam {
	return SourceConfigParam{fetch: optional.Some(fetch)}
}

// SourceFields restricts the returned source to fields.
func SourceFields(fields ...string) SourceConfigParam {
	return SourceConfigParam{fields: append([]string(nil), fields...)}
}

// Fetch returns the flag form, if that is the form in use.
func (s SourceConfigParam) Fetch() (bool, bool) { return s.fetch.Get() }

// Fields returns the field-list form.
func (s SourceConfigParam) Fields() []string { return append([]string(nil), s.fields...) }

// IsZero reports an unset parameter.
func (s SourceConfigParam) IsZero() bool { return s.fetch.IsNone() && len(s.fields) == 0 }

// ParamValue renders "true", "false" or the comma-joined field list.
func (s SourceConfigParam) ParamValue() string {
	if b, ok := s.fetch.Get(); ok {
		return strconv.FormatBool(b)
	}
	return strings.Join(s.fields, ",")
}

// ParseSourceConfigParam reverses ParamValue.
func ParseSourceConfigParam(v string) SourceConfigParam {
	switch v {
	case "true", "false":
		return SourceFetch(v == "true")
	case "":
		return SourceConfigParam{}
	}
	return SourceFields(strings.Split(v, ",")...)
}

// SourceFilter selects source fields by wildcard patterns.
type SourceFilter struct {
	Includes []string `json:"includes,omitempty"`
	Excludes []string `json:"excludes,omitempty"`
}

// SourceConfig is the `_source` member of a search body: a flag or a filter.
type SourceConfig struct {
	fetch  optional.Value[bool]
	filter *SourceFilter
}

// SourceConfigFetch turns source retrieval on or off.
func SourceConfigFetch(fetch bool) SourceConfig {
	return SourceConfig{fetch: optional.Some(fetch)}
}

// SourceConfigFilter returns a filtered source.
func SourceConfigFilter(f SourceFilter) SourceConfig {
	return SourceConfig{filter: &f}
}

// Fetch returns the flag form, if that is the form in use.
func (s SourceConfig) Fetch() (bool, bool) { return s.fetch.Get() }

// Filter returns the filter form, if that is the form in use.
func (s SourceConfig) Filter() (SourceFilter, bool) {
	if s.filter == nil {
		return SourceFilter{}, false
	}
	return *s.filter, true
}

// MarshalJSON implements json.Marshaler.
func (s SourceConfig) MarshalJSON() ([]byte, error) {
	if b, ok := s.fetch.Get(); ok {
		return json.Marshal(b)
	}
	if s.filter != nil {
		return json.Marshal(s.filter)
	}
	return []byte("true"), nil
}

// UnmarshalJSON accepts a boolean, a field list, a single field or a filter object.
func (s *SourceConfig) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty _source")
	}
	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*s = SourceConfigFetch(b)
	case '[':
		var fields []string
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		*s = SourceConfigFilter(SourceFilter{Includes: fields})
	case '"':
		var field string
		if err := json.Unmarshal(data, &field); err != nil {
			return err
		}
		*s = SourceConfigFilter(SourceFilter{Includes: []string{field}})
	case '{':
		var f SourceFilter
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*s = SourceConfigFilter(f)
	default:
		return fmt.Errorf("cannot decode _source from %s", string(data))
	}
	return nil
}
