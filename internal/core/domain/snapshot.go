package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the millisecond UTC form produced by JavaScript's
// Date.toISOString, which stored layouts already use.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Snapshot is the persisted form of a layout.
type Snapshot struct {
	Components   []Component
	LastModified time.Time
}

// NewSnapshot captures l at time at. The components are deep copies.
func NewSnapshot(l Layout, at time.Time) Snapshot {
	return Snapshot{
		Components:   l.Components(),
		LastModified: at.UTC().Truncate(time.Millisecond),
	}
}

// Layout rebuilds the layout document from the snapshot.
func (s Snapshot) Layout() (Layout, error) {
	return NewLayout(s.Components...)
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{LastModified: s.LastModified}
	if s.Components != nil {
		out.Components = make([]Component, len(s.Components))
		for i, c := range s.Components {
			out.Components[i] = c.Clone()
		}
	}
	return out
}

type snapshotJSON struct {
	Components   []Component `json:"components"`
	LastModified string      `json:"lastModified"`
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	components := s.Components
	if components == nil {
		components = []Component{}
	}
	wire := snapshotJSON{Components: components}
	if !s.LastModified.IsZero() {
		wire.LastModified = FormatTimestamp(s.LastModified)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var wire snapshotJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.Components = wire.Components
	s.LastModified = time.Time{}
	if wire.LastModified != "" {
		t, err := ParseTimestamp(wire.LastModified)
		if err != nil {
			return err
		}
		s.LastModified = t
	}
	return nil
}

// FormatTimestamp renders t in the persisted timestamp form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC 3339 timestamp and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: lastModified %q: %w", ErrInvalidInput, s, err)
	}
	return t.UTC(), nil
}
