package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/common/model"
)

// Stat is one summary figure as the raw JSON text the appliance sent:
// usually a number, but strings and null pass through untouched.
type Stat string

// String shows the figure with JSON strings unquoted. An unset stat is 0.
func (s Stat) String() string {
	if s == "" {
		return "0"
	}
	var text string
	if err := json.Unmarshal([]byte(s), &text); err == nil {
		return text
	}
	return string(s)
}

// MarshalJSON writes the stat back as it was received.
func (s Stat) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("0"), nil
	}
	if !json.Valid([]byte(s)) {
		return json.Marshal(string(s))
	}
	return []byte(s), nil
}

// UnmarshalJSON stores the raw JSON text of the value.
func (s *Stat) UnmarshalJSON(data []byte) error {
	*s = Stat(bytes.TrimSpace(data))
	return nil
}

// Stats are the summary figures reported by the appliance for a timeframe.
// They are never recomputed locally.
type Stats struct {
	Min     Stat `json:"min"`
	Max     Stat `json:"max"`
	Average Stat `json:"average"`
}

// String renders the stats annotation shown on charts.
func (s Stats) String() string {
	return fmt.Sprintf("Min: %s, Max: %s, Avg: %s", s.Min, s.Max, s.Average)
}

// Series is a normalized, chronologically oriented timeframe
type Series struct {
	Resource  ResourceKey        `json:"resource"`
	Timeframe string             `json:"timeframe"`
	Points    []model.SamplePair `json:"points"`
	Stats     Stats              `json:"stats"`
}

// Name is the display name of the series' resource.
func (s Series) Name() string {
	return s.Resource.DisplayName()
}

// Times returns the point timestamps in local time.
func (s Series) Times() []time.Time {
	times := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		times[i] = p.Timestamp.Time()
	}
	return times
}

// Values returns the point values.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = float64(p.Value)
	}
	return values
}
