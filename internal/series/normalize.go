package series

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/prometheus/common/model"

	"github.com/ppiankov/resmon/internal/models"
)

// Skip reasons, also used as metric label values.
const (
	ReasonMalformed = "malformed"
	ReasonExcluded  = "excluded"
	ReasonRender    = "render"
)

// SkipError reports a timeframe that cannot be charted.
type SkipError struct {
	Resource  models.ResourceKey
	Timeframe string
	Reason    string
	Detail    string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipping %s/%s: %s", e.Resource.DisplayName(), e.Timeframe, e.Detail)
}

type rawTimeframe struct {
	Values  json.RawMessage `json:"values"`
	Min     json.RawMessage `json:"min"`
	Max     json.RawMessage `json:"max"`
	Average json.RawMessage `json:"average"`
}

// Normalize turns one raw historical window into a Series.
//
// Points come back in source order unless the first timestamp is later than
// the last, in which case the whole series is reversed. An empty values list
// yields a series without points. Stats are copied from the payload as-is.
func Normalize(key models.ResourceKey, tf models.TimeframeData) (models.Series, error) {
	skip := func(reason, format string, args ...any) (models.Series, error) {
		return models.Series{}, &SkipError{
			Resource:  key,
			Timeframe: tf.Label,
			Reason:    reason,
			Detail:    fmt.Sprintf(format, args...),
		}
	}

	var raw rawTimeframe
	if err := json.Unmarshal(tf.Raw, &raw); err != nil {
		return skip(ReasonMalformed, "timeframe is not an object: %v", err)
	}
	if isNull(raw.Values) {
		return skip(ReasonMalformed, "missing values")
	}

	var pairs []json.RawMessage
	if err := json.Unmarshal(raw.Values, &pairs); err != nil {
		return skip(ReasonMalformed, "values is not a list: %v", err)
	}
	points := make([]model.SamplePair, 0, len(pairs))
	for i, rawPair := range pairs {
		point, err := parsePoint(rawPair)
		if err != nil {
			return skip(ReasonMalformed, "values[%d]: %v", i, err)
		}
		points = append(points, point)
	}

	if points[0].Timestamp.After(points[len(points)-1].Timestamp) {
		reverse(points)
	}

	return models.Series{
		Resource:  key,
		Timeframe: tf.Label,
		Points:    points,
		Stats: models.Stats{
			Min:     rawStat(raw.Min),
			Max:     rawStat(raw.Max),
			Average: rawStat(raw.Average),
		},
	}, nil
}

// parsePoint reads an [epochMs, value, ...] pair. Extra elements are ignored.
func parsePoint(data json.RawMessage) (model.SamplePair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var pair []any
	if err := dec.Decode(&pair); err != nil {
		return model.SamplePair{}, fmt.Errorf("expected [timestamp, value] pair")
	}
	if len(pair) < 2 {
		return model.SamplePair{}, fmt.Errorf("expected [timestamp, value] pair, got %d element(s)", len(pair))
	}

	ts, err := number(pair[0])
	if err != nil {
		return model.SamplePair{}, fmt.Errorf("timestamp: %w", err)
	}
	value, err := number(pair[1])
	if err != nil {
		return model.SamplePair{}, fmt.Errorf("value: %w", err)
	}

	return model.SamplePair{
		Timestamp: model.Time(int64(ts)),
		Value:     model.SampleValue(value),
	}, nil
}

func number(v any) (float64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", v)
	}
	return n.Float64()
}

// rawStat keeps the stat's JSON text; a missing stat reads as 0.
func rawStat(data json.RawMessage) models.Stat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "0"
	}
	return models.Stat(trimmed)
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func reverse(points []model.SamplePair) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}
