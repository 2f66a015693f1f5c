package content

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"firestore underscore seconds", `{"_seconds": 1700000000}`, time.Unix(1700000000, 0)},
		{"firestore seconds", `{"seconds": 1700000000}`, time.Unix(1700000000, 0)},
		{"rfc3339 string", `"2024-05-01T12:30:00Z"`, time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"epoch seconds", `1700000000`, time.Unix(1700000000, 0)},
		{"epoch milliseconds", `1700000000000`, time.UnixMilli(1700000000000)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tc.in), &ts))
			assert.True(t, ts.Time.Equal(tc.want), "got %v want %v", ts.Time, tc.want)
		})
	}
}

func TestTimestamp_UnmarshalNull(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.Time.IsZero())
}

func TestTimestamp_UnmarshalGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &ts))
}

func TestTimestamp_MarshalRoundTrip(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC))
	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T12:30:00Z"`, string(out))

	var back Timestamp
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Time.Equal(ts.Time))
}

func TestItem_UnmarshalFromBackend(t *testing.T) {
	payload := `{
		"itemId": "abc",
		"text": "hello",
		"imageUrl": "https://img.example.com/abc.jpg",
		"latitude": 50.45,
		"longitude": 30.52,
		"timestamp": {"_seconds": 1700000000},
		"voteCount": 4,
		"status": "for_moderation",
		"userId": "user-1"
	}`
	var item Item
	require.NoError(t, json.Unmarshal([]byte(payload), &item))
	assert.Equal(t, "abc", item.ItemID)
	assert.Equal(t, 4, item.VoteCount)
	assert.True(t, item.UnderModeration())
	assert.True(t, item.HasValidCoordinates())
	assert.Equal(t, time.Unix(1700000000, 0).Unix(), item.Timestamp.Unix())
}
