package chart

import (
	"testing"
	"time"

	"github.com/prometheus/common/model"

	"github.com/ppiankov/resmon/internal/models"
)

func sampleSeries(key models.ResourceKey, n int) models.Series {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	points := make([]model.SamplePair, n)
	for i := range points {
		points[i] = model.SamplePair{
			Timestamp: model.TimeFromUnixNano(base.Add(time.Duration(i) * time.Minute).UnixNano()),
			Value:     model.SampleValue(10 * (i + 1)),
		}
	}
	return models.Series{
		Resource:  key,
		Timeframe: "1-hour",
		Points:    points,
		Stats:     models.Stats{Min: "10", Max: "30", Average: "20"},
	}
}

func TestRenderProducesSizedImage(t *testing.T) {
	r := NewRenderer()
	r.Location = time.UTC

	img, err := r.Render(sampleSeries(models.ResourceCPU, 3))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != DefaultWidth || b.Dy() != DefaultHeight {
		t.Fatalf("expected %dx%d image, got %dx%d", DefaultWidth, DefaultHeight, b.Dx(), b.Dy())
	}
}

func TestRenderSinglePoint(t *testing.T) {
	r := &Renderer{Width: 400, Height: 200, Location: time.UTC}
	if _, err := r.Render(sampleSeries(models.ResourceSession, 1)); err != nil {
		t.Fatalf("expected single point series to render, got %v", err)
	}
}

func TestRenderEqualTimestamps(t *testing.T) {
	s := sampleSeries(models.ResourceMemory, 2)
	s.Points[1].Timestamp = s.Points[0].Timestamp

	r := &Renderer{Width: 400, Height: 200, Location: time.UTC}
	if _, err := r.Render(s); err != nil {
		t.Fatalf("expected equal timestamps to render, got %v", err)
	}
}

func TestRenderEmptySeriesDrawsAxes(t *testing.T) {
	r := &Renderer{Width: 400, Height: 200, Location: time.UTC}
	img, err := r.Render(models.Series{Resource: models.ResourceCPU, Timeframe: "30-min"})
	if err != nil {
		t.Fatalf("expected axes-only chart, got %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("expected 400x200 image, got %v", b)
	}
}
