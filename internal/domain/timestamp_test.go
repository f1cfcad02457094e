package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 with millis", `"2025-10-01T12:00:00.000Z"`, time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)},
		{"rfc3339 with offset", `"2025-10-01T09:00:00-03:00"`, time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)},
		{"space separator", `"2025-10-01 12:00:00"`, time.Date(2025, 10, 1, 12, 0, 0, 0, time.Local)},
		{"no zone", `"2025-10-01T12:00:00"`, time.Date(2025, 10, 1, 12, 0, 0, 0, time.Local)},
		{"epoch millis", `1727784000000`, time.UnixMilli(1727784000000)},
		{"garbage", `"yesterday"`, time.Time{}},
		{"null", `null`, time.Time{}},
		{"object", `{"at":1}`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "want %v, got %v", tt.want, ts.Time)
		})
	}
}

func TestOrder_UnmarshalToleratesOddCreatedAt(t *testing.T) {
	var orders []Order
	err := json.Unmarshal([]byte(`[
		{"id":1,"status":"pending","created_at":"2025-10-01 12:00:00","items":[]},
		{"id":2,"status":"paid","created_at":1727784000000,"items":[]},
		{"id":3,"status":"paid","created_at":"not a date","items":[]}
	]`), &orders)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.False(t, orders[0].CreatedAt.IsZero())
	assert.False(t, orders[1].CreatedAt.IsZero())
	assert.True(t, orders[2].CreatedAt.IsZero())
}
