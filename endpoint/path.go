package endpoint

import (
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// PathSet is a presence bitmask over the path parameters of one endpoint.
type PathSet uint32

// With returns s with bit set when present is true.
func (s PathSet) With(bit PathSet, present bool) PathSet {
	if present {
		return s | bit
	}
	return s
}

// Template is one supported URL shape, selected when the request's
// presence set equals Mask exactly.
type Template[Req any] struct {
	Mask  PathSet
	Build func(Req, *PathBuilder)
}

// ResolvePath selects the template matching present and renders it.
func ResolvePath[Req any](id string, req Req, present PathSet, templates ...Template[Req]) (string, error) {
	for _, t := range templates {
		if t.Mask == present {
			var pb PathBuilder
			t.Build(req, &pb)
			return pb.String(), nil
		}
	}
	return "", &NoPathTemplateError{Endpoint: id, Present: present}
}

// PathBuilder accumulates a URL path. Literals are written as is; values
// are percent-encoded one segment at a time.
type PathBuilder struct {
	sb strings.Builder
}

// Literal appends "/" followed by the unencoded literal.
func (p *PathBuilder) Literal(lit string) *PathBuilder {
	p.sb.WriteByte('/')
	p.sb.WriteString(lit)
	return p
}

// Segment appends "/" followed by the encoded value.
func (p *PathBuilder) Segment(value string) *PathBuilder {
	p.sb.WriteByte('/')
	p.sb.WriteString(PathEncode(value))
	return p
}

// Segments appends "/" followed by the comma-joined encoded values.
func (p *PathBuilder) Segments(values []string) *PathBuilder {
	p.sb.WriteByte('/')
	p.sb.WriteString(PathEncodeList(values))
	return p
}

func (p *PathBuilder) String() string {
	if p.sb.Len() == 0 {
		return "/"
	}
	return p.sb.String()
}

// PathEncode percent-encodes a single path segment.
func PathEncode(segment string) string {
	s, err := runtime.StyleParamWithLocation("simple", false, "segment", runtime.ParamLocationPath, segment)
	if err != nil {
		return url.PathEscape(segment)
	}
	return s
}

// PathEncodeList encodes each value as a path segment and joins them with
// commas, the multi-target form used by index lists.
func PathEncodeList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	s, err := runtime.StyleParamWithLocation("simple", false, "segment", runtime.ParamLocationPath, values)
	if err != nil {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = url.PathEscape(v)
		}
		return strings.Join(parts, ",")
	}
	return s
}
