package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TrackHits controls total hit counting in a search: a flag, or the
// count up to which hits are counted accurately.
type TrackHits struct {
	enabled *bool
	count   *int
}

// TrackHitsEnabled turns accurate counting fully on or off.
func TrackHitsEnabled(on bool) TrackHits { return TrackHits{enabled: &on} }

// TrackHitsCount counts accurately up to n hits.
func TrackHitsCount(n int) TrackHits { return TrackHits{count: &n} }

// Enabled returns the flag form.
func (t TrackHits) Enabled() (bool, bool) {
	if t.enabled == nil {
		return false, false
	}
	return *t.enabled, true
}

// Count returns the threshold form.
func (t TrackHits) Count() (int, bool) {
	if t.count == nil {
		return 0, false
	}
	return *t.count, true
}

// MarshalJSON implements json.Marshaler.
func (t TrackHits) MarshalJSON() ([]byte, error) {
	if t.count != nil {
		return json.Marshal(*t.count)
	}
	if t.enabled != nil {
		return json.Marshal(*t.enabled)
	}
	return []byte("true"), nil
}

// UnmarshalJSON accepts a boolean or an integer.
func (t *TrackHits) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == 't' || data[0] == 'f') {
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*t = TrackHitsEnabled(b)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("track_total_hits: %w", err)
	}
	*t = TrackHitsCount(n)
	return nil
}
