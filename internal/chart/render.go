package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ppiankov/resmon/internal/models"
)

const (
	DefaultWidth  = 1000
	DefaultHeight = 500
)

var lineColor = drawing.ColorFromHex("1f77b4")

// Renderer draws a series as a raster chart. It holds only settings, so a
// single Renderer can be shared between goroutines.
type Renderer struct {
	Width    int
	Height   int
	Location *time.Location
}

// NewRenderer returns a renderer with the default size and local time.
func NewRenderer() *Renderer {
	return &Renderer{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Location: time.Local,
	}
}

// Render draws s with its axis policy and stat annotations. A series without
// points yields an axes-only chart.
func (r *Renderer) Render(s models.Series) (image.Image, error) {
	times := s.Times()
	if r.Location != nil {
		for i := range times {
			times[i] = times[i].In(r.Location)
		}
	}
	values := s.Values()

	yMax := YAxisMax(values, s.Resource.IsPercentage())
	if !(yMax > 0) {
		// all-negative series; keep a usable axis instead of inverting it
		yMax = fixedHeadroom
	}

	xValues, yValues := plotPoints(times, values)

	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s - %s timeframe", s.Name(), s.Timeframe),
		Width:  r.Width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 64, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  "Time",
			Ticks: XTicks(times),
		},
		YAxis: gochart.YAxis{
			Name:  s.Name(),
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    s.Name(),
				XValues: xValues,
				YValues: yValues,
				Style: gochart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    3,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode rendered chart: %w", err)
	}

	b := decoded.Bounds()
	canvas := image.NewRGBA(b)
	draw.Draw(canvas, b, decoded, b.Min, draw.Src)

	date := ""
	if len(times) > 0 {
		date = "Date: " + times[0].Format(dateLayout)
	}
	annotate(canvas, date, s.Stats.String())
	return canvas, nil
}

// plotPoints returns the values handed to go-chart, which needs at least two
// X values to draw. A single point is drawn twice across the padded span; an
// empty series becomes a flat line on the X axis.
func plotPoints(times []time.Time, values []float64) ([]time.Time, []float64) {
	switch len(times) {
	case 0:
		lo, hi, _ := XSpan(times)
		return []time.Time{lo, hi}, []float64{0, 0}
	case 1:
		lo, hi, _ := XSpan(times)
		return []time.Time{lo, hi}, []float64{values[0], values[0]}
	}
	return times, values
}
