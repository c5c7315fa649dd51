package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounters(t *testing.T) {
	r := NewRecorder()

	r.ObserveFetch("cpu", OutcomeSuccess, 120*time.Millisecond)
	r.ObserveFetch("cpu", OutcomeSuccess, 80*time.Millisecond)
	r.ObserveFetch("disk", OutcomeStatus, time.Second)
	r.ChartRendered("cpu")
	r.TimeframeSkipped("disk", "malformed")
	r.TimeframeSkipped("disk", "malformed")

	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{name: "cpu_success", got: testutil.ToFloat64(r.fetchRequests.WithLabelValues("cpu", OutcomeSuccess)), want: 2},
		{name: "disk_status", got: testutil.ToFloat64(r.fetchRequests.WithLabelValues("disk", OutcomeStatus)), want: 1},
		{name: "charts", got: testutil.ToFloat64(r.chartsRendered.WithLabelValues("cpu")), want: 1},
		{name: "skipped", got: testutil.ToFloat64(r.timeframesSkipped.WithLabelValues("disk", "malformed")), want: 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, tc.got)
			}
		})
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveFetch("cpu", OutcomeError, time.Second)
	r.ChartRendered("cpu")
	r.TimeframeSkipped("cpu", "malformed")
	r.MarkRun(time.Now())
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Fatalf("expected nil recorder to skip writing, got %v", err)
	}
	if r.Registry() != nil {
		t.Fatal("expected nil registry")
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveFetch("mem", OutcomeSuccess, 50*time.Millisecond)
	r.MarkRun(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "resmon.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`resmon_fetch_requests_total{outcome="success",resource="mem"} 1`,
		"resmon_last_run_timestamp_seconds 1.7e+09",
		"resmon_fetch_duration_seconds_count{resource=\"mem\"} 1",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected metrics file to contain %q, got:\n%s", want, text)
		}
	}
}
