package analyzer

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"github.com/ppiankov/resmon/internal/encoder"
	"github.com/ppiankov/resmon/internal/metrics"
	"github.com/ppiankov/resmon/internal/models"
	"github.com/ppiankov/resmon/internal/series"
	"github.com/ppiankov/resmon/pkg/config"
)

// ChartRenderer draws one series
type ChartRenderer interface {
	Render(s models.Series) (image.Image, error)
}

// Analyzer turns fetched histories into report sections
type Analyzer struct {
	config   *config.Config
	renderer ChartRenderer
	metrics  *metrics.Recorder
}

// New creates a new analyzer instance
func New(cfg *config.Config, renderer ChartRenderer, rec *metrics.Recorder) *Analyzer {
	return &Analyzer{
		config:   cfg,
		renderer: renderer,
		metrics:  rec,
	}
}

// Analyze normalizes, renders and encodes every timeframe of every history.
// A timeframe that cannot be charted is logged and left out; it never fails
// the run. The returned report has no metadata yet.
func (a *Analyzer) Analyze(ctx context.Context, histories []models.ResourceHistory) (*models.Report, error) {
	report := &models.Report{Resources: []models.ResourceSection{}}

	for _, history := range histories {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.AddSection(history.Key)
		for _, tf := range history.Timeframes {
			chart, err := a.chart(history.Key, tf)
			if err != nil {
				a.skip(history.Key, tf.Label, err)
				continue
			}
			report.AddChart(history.Key, chart)
			a.metrics.ChartRendered(string(history.Key))
		}
	}

	slog.Debug("analysis complete",
		slog.Int("resources", len(report.Resources)),
		slog.Int("charts", report.ChartCount()),
	)
	return report, nil
}

func (a *Analyzer) chart(key models.ResourceKey, tf models.TimeframeData) (models.RenderedChart, error) {
	if a.config.IsTimeframeExcluded(tf.Label) {
		return models.RenderedChart{}, &series.SkipError{
			Resource:  key,
			Timeframe: tf.Label,
			Reason:    series.ReasonExcluded,
			Detail:    "excluded by configuration",
		}
	}

	s, err := series.Normalize(key, tf)
	if err != nil {
		return models.RenderedChart{}, err
	}

	img, err := a.renderer.Render(s)
	if err != nil {
		return models.RenderedChart{}, renderSkip(key, tf.Label, err)
	}
	uri, err := encoder.Encode(img)
	if err != nil {
		return models.RenderedChart{}, renderSkip(key, tf.Label, err)
	}

	return models.RenderedChart{
		Resource:  key.DisplayName(),
		Timeframe: tf.Label,
		Image:     uri,
		Stats:     s.Stats,
		Points:    len(s.Points),
		Series:    s,
	}, nil
}

func (a *Analyzer) skip(key models.ResourceKey, timeframe string, err error) {
	reason := series.ReasonMalformed
	var skipErr *series.SkipError
	if errors.As(err, &skipErr) {
		reason = skipErr.Reason
	}
	a.metrics.TimeframeSkipped(string(key), reason)

	level := slog.LevelWarn
	if reason == series.ReasonExcluded {
		level = slog.LevelDebug
	}
	slog.Log(context.Background(), level, "skipping timeframe",
		slog.String("resource", key.DisplayName()),
		slog.String("timeframe", timeframe),
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)
}

func renderSkip(key models.ResourceKey, timeframe string, err error) error {
	return &series.SkipError{
		Resource:  key,
		Timeframe: timeframe,
		Reason:    series.ReasonRender,
		Detail:    err.Error(),
	}
}
