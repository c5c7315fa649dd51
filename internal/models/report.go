package models

import "time"

// Report is the complete output structure
type Report struct {
	Metadata  Metadata          `json:"metadata"`
	Resources []ResourceSection `json:"resources"`
}

// Metadata contains report generation info
type Metadata struct {
	Tool        string    `json:"tool"`
	Version     string    `json:"version"`
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Host        string    `json:"host"`
	Scope       Scope     `json:"scope"`
	Requested   []string  `json:"requested_resources"`
	Duration    string    `json:"duration"`
}

// ResourceSection groups the charts of one resource in timeframe order
type ResourceSection struct {
	Name   string          `json:"name"`
	Key    ResourceKey     `json:"key"`
	Charts []RenderedChart `json:"charts"`
}

// RenderedChart is a chart ready for embedding
type RenderedChart struct {
	Resource  string `json:"resource"`
	Timeframe string `json:"timeframe"`
	// Image is a data URI ("data:image/png;base64,...").
	Image  string `json:"-"`
	Stats  Stats  `json:"stats"`
	Points int    `json:"points"`
	Series Series `json:"series"`
}

// AddSection registers a fetched resource. Sections keep insertion order and
// stay in the report even when every timeframe is skipped.
func (r *Report) AddSection(key ResourceKey) *ResourceSection {
	for i := range r.Resources {
		if r.Resources[i].Key == key {
			return &r.Resources[i]
		}
	}
	r.Resources = append(r.Resources, ResourceSection{
		Name:   key.DisplayName(),
		Key:    key,
		Charts: []RenderedChart{},
	})
	return &r.Resources[len(r.Resources)-1]
}

// AddChart appends a chart, creating the resource section on first use.
func (r *Report) AddChart(key ResourceKey, chart RenderedChart) {
	section := r.AddSection(key)
	section.Charts = append(section.Charts, chart)
}

// ChartCount returns the number of charts across all sections.
func (r *Report) ChartCount() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, section := range r.Resources {
		total += len(section.Charts)
	}
	return total
}
