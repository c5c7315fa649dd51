package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/resmon/internal/metrics"
	"github.com/ppiankov/resmon/internal/models"
)

type fakeFetcher struct {
	mu     sync.Mutex
	calls  []models.ResourceKey
	delay  map[models.ResourceKey]time.Duration
	fail   map[models.ResourceKey]error
	panics map[models.ResourceKey]bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, key models.ResourceKey) (*models.UsagePayload, error) {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if d := f.delay[key]; d > 0 {
		time.Sleep(d)
	}
	if f.panics[key] {
		panic("fetcher exploded")
	}
	if err := f.fail[key]; err != nil {
		return nil, err
	}

	body := `[{"historical":{"1-min":{"values":[[1700000000000,1]]}}}]`
	return &models.UsagePayload{Results: map[string]json.RawMessage{string(key): json.RawMessage(body)}}, nil
}

func historyKeys(histories []models.ResourceHistory) []models.ResourceKey {
	keys := make([]models.ResourceKey, 0, len(histories))
	for _, h := range histories {
		keys = append(keys, h.Key)
	}
	return keys
}

func TestCollectKeepsRequestOrderUnderConcurrency(t *testing.T) {
	f := &fakeFetcher{delay: map[models.ResourceKey]time.Duration{
		models.ResourceCPU:    40 * time.Millisecond,
		models.ResourceMemory: 20 * time.Millisecond,
	}}
	c := NewWithFetcher(f, 4, nil)

	keys := []models.ResourceKey{models.ResourceCPU, models.ResourceMemory, models.ResourceDisk, models.ResourceSession}
	got := historyKeys(c.Collect(context.Background(), keys))
	if diff := cmp.Diff(keys, got); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestCollectOmitsFailedResources(t *testing.T) {
	f := &fakeFetcher{
		fail: map[models.ResourceKey]error{
			models.ResourceMemory: &StatusError{Code: 500, Status: "500 Internal Server Error"},
		},
		panics: map[models.ResourceKey]bool{models.ResourceDisk: true},
	}
	c := NewWithFetcher(f, 2, metrics.NewRecorder())

	got := historyKeys(c.Collect(context.Background(), []models.ResourceKey{
		models.ResourceCPU, models.ResourceMemory, models.ResourceDisk, models.ResourceSession,
	}))
	want := []models.ResourceKey{models.ResourceCPU, models.ResourceSession}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected histories (-want +got):\n%s", diff)
	}
}

func TestCollectDeduplicatesKeys(t *testing.T) {
	f := &fakeFetcher{}
	c := NewWithFetcher(f, 1, nil)

	got := historyKeys(c.Collect(context.Background(), []models.ResourceKey{
		models.ResourceDisk, models.ResourceCPU, models.ResourceDisk,
	}))
	if diff := cmp.Diff([]models.ResourceKey{models.ResourceDisk, models.ResourceCPU}, got); diff != "" {
		t.Fatalf("unexpected histories (-want +got):\n%s", diff)
	}
	if len(f.calls) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(f.calls))
	}
}

func TestCollectEmptyKeys(t *testing.T) {
	c := NewWithFetcher(&fakeFetcher{}, 1, nil)
	if got := c.Collect(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected no histories, got %v", got)
	}
}

func TestCollectAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("resource") {
		case "cpu":
			fmt.Fprint(w, cpuPayload)
		case "mem":
			http.Error(w, "internal", http.StatusInternalServerError)
		case "disk":
			fmt.Fprint(w, `{"results":{"disk":[]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	rec := metrics.NewRecorder()
	c, err := New(testConfig(srv.URL), rec)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got := historyKeys(c.Collect(context.Background(), []models.ResourceKey{
		models.ResourceCPU, models.ResourceMemory, models.ResourceDisk,
	}))
	if diff := cmp.Diff([]models.ResourceKey{models.ResourceCPU}, got); diff != "" {
		t.Fatalf("unexpected histories (-want +got):\n%s", diff)
	}

	families, err := rec.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	outcomes := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "resmon_fetch_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			outcomes[labels["resource"]+"/"+labels["outcome"]] = m.GetCounter().GetValue()
		}
	}
	want := map[string]float64{
		"cpu/" + metrics.OutcomeSuccess:    1,
		"mem/" + metrics.OutcomeStatus:     1,
		"disk/" + metrics.OutcomeNoHistory: 1,
	}
	if diff := cmp.Diff(want, outcomes); diff != "" {
		t.Fatalf("unexpected fetch outcomes (-want +got):\n%s", diff)
	}
}
