package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoHistory is returned when a payload carries no historical data for a resource.
var ErrNoHistory = errors.New("no historical data")

// UsagePayload is the body returned by /api/v2/monitor/system/resource/usage.
// Results are kept raw so one malformed resource cannot poison the others.
type UsagePayload struct {
	Results map[string]json.RawMessage `json:"results"`
}

// ResourceUsage is one element of results[<key>]
type ResourceUsage struct {
	Historical *Timeframes `json:"historical"`
}

// TimeframeData is a single historical window ("1-min", "1-hour", ...) left undecoded
type TimeframeData struct {
	Label string
	Raw   json.RawMessage
}

// Timeframes keeps the historical windows in document order.
type Timeframes []TimeframeData

// UnmarshalJSON decodes a JSON object while preserving key order.
func (t *Timeframes) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("historical: expected object, got %v", tok)
	}

	var frames Timeframes
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("historical: unexpected key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("historical %q: %w", label, err)
		}

		// duplicate keys: last value wins, first position is kept
		if i, dup := index[label]; dup {
			frames[i].Raw = raw
			continue
		}
		index[label] = len(frames)
		frames = append(frames, TimeframeData{Label: label, Raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = frames
	return nil
}

// ResourceHistory is the fetch stage output for one resource
type ResourceHistory struct {
	Key        ResourceKey
	Timeframes Timeframes
}

// History extracts results[key][0].historical from the payload.
func (p *UsagePayload) History(key ResourceKey) (*ResourceHistory, error) {
	if p == nil || p.Results == nil {
		return nil, fmt.Errorf("%w: response has no results", ErrNoHistory)
	}

	raw, ok := p.Results[string(key)]
	if !ok {
		return nil, fmt.Errorf("%w: results has no %q entry", ErrNoHistory, key)
	}

	var entries []ResourceUsage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("malformed results for %q: %w", key, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: results for %q is empty", ErrNoHistory, key)
	}
	if entries[0].Historical == nil {
		return nil, fmt.Errorf("%w: results for %q has no historical block", ErrNoHistory, key)
	}

	return &ResourceHistory{
		Key:        key,
		Timeframes: *entries[0].Historical,
	}, nil
}
