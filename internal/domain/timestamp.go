package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// zonelessLayouts are interpreted in the local time zone.
var zonelessLayouts = []string{
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

// Timestamp is a backend-supplied time. It accepts RFC 3339, zone-less
// date-times and epoch milliseconds; anything else decodes to the zero time
// instead of failing the surrounding document.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil
		}
		if ms, err := n.Int64(); err == nil {
			t.Time = time.UnixMilli(ms)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	t.Time = parseTimestamp(s)
	return nil
}

func parseTimestamp(s string) time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts
	}
	for _, layout := range zonelessLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts
		}
	}
	return time.Time{}
}
