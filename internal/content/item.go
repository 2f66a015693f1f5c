// Package content holds the client-side mirror of server content: the item
// model and the ordered store that every other component reads from.
package content

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

type Status string

const (
	StatusPublished     Status = "published"
	StatusForModeration Status = "for_moderation"
)

// Item is a single geolocated post as served by the backend.
type Item struct {
	ItemID        string    `json:"itemId"`
	Text          string    `json:"text,omitempty"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Timestamp     Timestamp `json:"timestamp,omitempty"`
	VoteCount     int       `json:"voteCount"`
	Status        Status    `json:"status,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	ReportedCount int       `json:"reportedCount,omitempty"` // display-only, not authoritative
}

// HasValidCoordinates reports whether both coordinates are finite numbers.
// Items without valid coordinates stay in the store but get no marker.
func (i *Item) HasValidCoordinates() bool {
	return isFinite(i.Latitude) && isFinite(i.Longitude)
}

func (i *Item) UnderModeration() bool {
	return i.Status == StatusForModeration
}

// MarkerLabel is the short text shown on a text-only marker.
func (i *Item) MarkerLabel() string {
	if i.Text == "" {
		return "Post"
	}
	runes := []rune(i.Text)
	if len(runes) > 10 {
		return string(runes[:10])
	}
	return i.Text
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Timestamp accepts the several serialized shapes the backend historically
// produced: Firestore objects with `_seconds` or `seconds`, RFC3339 strings,
// and bare epoch numbers (seconds, or milliseconds when large enough).
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var obj struct {
		Seconds    *int64 `json:"seconds"`
		SecondsAlt *int64 `json:"_seconds"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.SecondsAlt != nil {
			t.Time = time.Unix(*obj.SecondsAlt, 0)
			return nil
		}
		if obj.Seconds != nil {
			t.Time = time.Unix(*obj.Seconds, 0)
			return nil
		}
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parsing timestamp string %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		// Heuristic from the reference client: large epochs are milliseconds.
		if n > 1e11 {
			t.Time = time.UnixMilli(int64(n))
		} else {
			t.Time = time.Unix(int64(n), 0)
		}
		return nil
	}

	return fmt.Errorf("unsupported timestamp shape: %s", string(data))
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Display renders the timestamp for the popup body; a missing timestamp
// shows the current time, matching the reference behavior.
func (t Timestamp) Display() string {
	when := t.Time
	if when.IsZero() {
		when = time.Now()
	}
	return when.Local().Format("1/2/2006, 3:04:05 PM")
}
