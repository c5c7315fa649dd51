package chart

import (
	"math"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
)

const (
	percentCeiling = 100.0
	// values above this get a proportional headroom instead of a fixed one
	proportionalThreshold = 100.0
	proportionalHeadroom  = 0.1
	fixedHeadroom         = 10.0

	tickLabelLayout = "15:04:05"
	dateLayout      = "2006-01-02"
)

// Headroom returns the space added above the largest value.
func Headroom(maxValue float64) float64 {
	if maxValue > proportionalThreshold {
		return maxValue * proportionalHeadroom
	}
	return fixedHeadroom
}

// YAxisMax computes the upper bound of the Y axis. The lower bound is always 0.
// Percentage metrics are capped at 100; everything else is unbounded.
func YAxisMax(values []float64, percentage bool) float64 {
	maxValue := 0.0
	if len(values) > 0 {
		maxValue = values[0]
		for _, v := range values[1:] {
			if v > maxValue {
				maxValue = v
			}
		}
	}

	yMax := maxValue + Headroom(maxValue)
	if percentage {
		yMax = math.Min(yMax, percentCeiling)
	}
	return yMax
}

// emptyAnchor positions the X axis of a series without points.
var emptyAnchor = time.Unix(0, 0)

// XSpan returns the earliest and latest instant on the X axis. go-chart
// refuses zero-width ranges, so a single instant is widened by one second and
// an empty series is anchored at the Unix epoch; padded reports either case.
func XSpan(times []time.Time) (lo, hi time.Time, padded bool) {
	if len(times) == 0 {
		return emptyAnchor, emptyAnchor.Add(time.Second), true
	}
	lo, hi = times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}
	if !hi.After(lo) {
		return lo, lo.Add(time.Second), true
	}
	return lo, hi, false
}

// XTicks places a tick on every timestamp and labels every other one.
// go-chart derives the X range from the ticks, so a padded span gets
// unlabeled ticks at its ends.
func XTicks(times []time.Time) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, len(times)+2)
	for i, t := range times {
		label := ""
		if i%2 == 0 {
			label = t.Format(tickLabelLayout)
		}
		ticks = append(ticks, gochart.Tick{Value: gochart.TimeToFloat64(t), Label: label})
	}

	lo, hi, padded := XSpan(times)
	if !padded {
		return ticks
	}
	if len(times) == 0 {
		ticks = append(ticks, gochart.Tick{Value: gochart.TimeToFloat64(lo)})
	}
	return append(ticks, gochart.Tick{Value: gochart.TimeToFloat64(hi)})
}
