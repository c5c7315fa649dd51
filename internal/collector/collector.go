package collector

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ppiankov/resmon/internal/metrics"
	"github.com/ppiankov/resmon/internal/models"
	"github.com/ppiankov/resmon/pkg/config"
)

// Fetcher retrieves the raw usage payload for one resource.
type Fetcher interface {
	Fetch(ctx context.Context, key models.ResourceKey) (*models.UsagePayload, error)
}

// Collector fetches the historical series of several resources.
type Collector struct {
	fetcher Fetcher
	workers int
	metrics *metrics.Recorder
}

// New creates a collector backed by the HTTP API client.
func New(cfg *config.Config, rec *metrics.Recorder) (*Collector, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithFetcher(client, cfg.Concurrency, rec), nil
}

// NewWithFetcher creates a collector around an arbitrary fetcher.
func NewWithFetcher(f Fetcher, workers int, rec *metrics.Recorder) *Collector {
	if workers < 1 {
		workers = 1
	}
	return &Collector{fetcher: f, workers: workers, metrics: rec}
}

// Collect fetches every key and returns the histories that could be
// retrieved, in request order. Failed resources are logged and omitted.
func (c *Collector) Collect(ctx context.Context, keys []models.ResourceKey) []models.ResourceHistory {
	keys = uniqueKeys(keys)
	if len(keys) == 0 {
		return nil
	}

	pool := NewWorkerPool(min(c.workers, len(keys)), c.timedFetch)
	pool.Start(ctx)

	go func() {
		for i, key := range keys {
			pool.Submit(fetchJob{index: i, key: key})
		}
		pool.Stop()
	}()

	slots := make([]*models.ResourceHistory, len(keys))
	for res := range pool.Results() {
		slots[res.index] = c.history(res)
	}

	histories := make([]models.ResourceHistory, 0, len(keys))
	for _, h := range slots {
		if h != nil {
			histories = append(histories, *h)
		}
	}

	slog.Debug("collection finished",
		slog.Int("requested", len(keys)),
		slog.Int("collected", len(histories)),
	)
	return histories
}

func (c *Collector) timedFetch(ctx context.Context, key models.ResourceKey) (*models.UsagePayload, error) {
	start := time.Now()
	payload, err := c.fetcher.Fetch(ctx, key)
	c.metrics.ObserveFetch(string(key), fetchOutcome(payload, key, err), time.Since(start))
	return payload, err
}

// history turns a fetch result into a ResourceHistory, logging failures.
func (c *Collector) history(res fetchResult) *models.ResourceHistory {
	if res.err != nil {
		slog.Warn("failed to fetch resource",
			slog.String("resource", string(res.key)),
			slog.String("error", res.err.Error()),
		)
		return nil
	}

	h, err := res.payload.History(res.key)
	if err != nil {
		slog.Warn("resource has no usable history",
			slog.String("resource", string(res.key)),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return h
}

func fetchOutcome(payload *models.UsagePayload, key models.ResourceKey, err error) string {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return metrics.OutcomeStatus
	case err != nil:
		return metrics.OutcomeError
	}
	if _, err := payload.History(key); err != nil {
		return metrics.OutcomeNoHistory
	}
	return metrics.OutcomeSuccess
}

func uniqueKeys(keys []models.ResourceKey) []models.ResourceKey {
	seen := make(map[models.ResourceKey]bool, len(keys))
	out := make([]models.ResourceKey, 0, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
