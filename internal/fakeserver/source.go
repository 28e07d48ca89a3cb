package fakeserver

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"
)

// decodeSource parses a stored source keeping numbers exact.
func decodeSource(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// filterSource keeps the fields matched by includes (all when empty) and
// drops those matched by excludes. Patterns are dotted paths with * wildcards.
func filterSource(raw json.RawMessage, includes, excludes []string) (json.RawMessage, error) {
	if len(includes) == 0 && len(excludes) == 0 {
		return raw, nil
	}
	m, err := decodeSource(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(filterMap(m, "", includes, excludes))
}

func filterMap(m map[string]any, prefix string, includes, excludes []string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		p := prefix + k
		if matchAny(excludes, p) {
			continue
		}
		child, isObject := v.(map[string]any)
		switch {
		case len(includes) == 0 || matchAny(includes, p):
			if isObject {
				v = filterMap(child, p+".", nil, excludes)
			}
			out[k] = v
		case isObject && reachesInto(includes, p+"."):
			if sub := filterMap(child, p+".", includes, excludes); len(sub) > 0 {
				out[k] = sub
			}
		}
	}
	return out
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if ok, _ := path.Match(pat, name); ok {
			return true
		}
	}
	return false
}

func reachesInto(patterns []string, prefix string) bool {
	for _, pat := range patterns {
		if strings.HasPrefix(pat, prefix) || strings.HasPrefix(pat, "*") {
			return true
		}
	}
	return false
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
