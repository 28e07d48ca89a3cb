package types

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// UnexpectedStatusType is the error type given to error responses whose
// body is empty or not an API error document (HEAD requests, proxies).
const UnexpectedStatusType = "unexpected_status"

// ErrorCause is the server-side description of a failure.
type ErrorCause struct {
	Type       string       `json:"type"`
	Reason     string       `json:"reason,omitempty"`
	StackTrace string       `json:"stack_trace,omitempty"`
	CausedBy   *ErrorCause  `json:"caused_by,omitempty"`
	RootCause  []ErrorCause `json:"root_cause,omitempty"`
	Suppressed []ErrorCause `json:"suppressed,omitempty"`
	// Metadata keeps every other member (index, shard, resource.id, ...).
	Metadata map[string]json.RawMessage `json:"-"`
}

var errorCauseMembers = map[string]struct{}{
	"type": {}, "reason": {}, "stack_trace": {}, "caused_by": {}, "root_cause": {}, "suppressed": {},
}

// UnmarshalJSON decodes the known members and collects the rest in Metadata.
func (c *ErrorCause) UnmarshalJSON(data []byte) error {
	type plain ErrorCause
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k, v := range all {
		if _, known := errorCauseMembers[k]; known {
			continue
		}
		if p.Metadata == nil {
			p.Metadata = make(map[string]json.RawMessage)
		}
		p.Metadata[k] = v
	}
	*c = ErrorCause(p)
	return nil
}

// MarshalJSON writes Metadata members next to the known ones.
func (c ErrorCause) MarshalJSON() ([]byte, error) {
	type plain ErrorCause
	known, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}
	if len(c.Metadata) == 0 {
		return known, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(known, &all); err != nil {
		return nil, err
	}
	for k, v := range c.Metadata {
		if _, clash := all[k]; !clash {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

// ErrorResponse is the structured payload of a failed API call. It is
// returned as an error by every endpoint.
type ErrorResponse struct {
	Cause  ErrorCause `json:"error"`
	Status int        `json:"status"`
}

func (e *ErrorResponse) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "osclient: status %d", e.Status)
	if e.Cause.Type != "" {
		fmt.Fprintf(&sb, ": [%s]", e.Cause.Type)
	}
	if e.Cause.Reason != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Cause.Reason)
	}
	return sb.String()
}

// UnmarshalJSON accepts both the object form and the legacy string form
// of the "error" member.
func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Error  json.RawMessage `json:"error"`
		Status int             `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Status = raw.Status
	e.Cause = ErrorCause{}
	trimmed := strings.TrimSpace(string(raw.Error))
	switch {
	case trimmed == "" || trimmed == "null":
	case strings.HasPrefix(trimmed, `"`):
		var reason string
		if err := json.Unmarshal(raw.Error, &reason); err != nil {
			return err
		}
		e.Cause = ErrorCause{Type: UnexpectedStatusType, Reason: reason}
	default:
		if err := json.Unmarshal(raw.Error, &e.Cause); err != nil {
			return err
		}
	}
	return nil
}

// IsErrorDocument reports whether body is a JSON object with an "error" member.
func IsErrorDocument(body []byte) bool {
	var probe struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &probe) != nil {
		return false
	}
	return len(probe.Error) > 0 && string(probe.Error) != "null"
}

// DecodeErrorResponse builds the error for a non-success response. Bodies
// that are not error documents are kept as the reason.
func DecodeErrorResponse(status int, body []byte) *ErrorResponse {
	var er ErrorResponse
	if len(body) > 0 && json.Unmarshal(body, &er) == nil && er.Cause.Type != "" {
		if er.Status == 0 {
			er.Status = status
		}
		return &er
	}
	reason := strings.TrimSpace(string(body))
	if reason == "" {
		reason = http.StatusText(status)
	}
	return &ErrorResponse{
		Cause:  ErrorCause{Type: UnexpectedStatusType, Reason: reason},
		Status: status,
	}
}
