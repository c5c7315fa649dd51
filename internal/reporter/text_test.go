package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ppiankov/resmon/internal/models"
)

func TestWriteSummaryProducesReadableOutput(t *testing.T) {
	var out bytes.Buffer
	if err := WriteSummary(sampleReport(), &out); err != nil {
		t.Fatalf("writeSummary failed: %v", err)
	}
	text := out.String()

	for _, want := range []string{
		"Resource Usage Summary",
		"Host: fw.example.com:8443",
		"Resources: 2, charts: 1",
		"RESOURCE",
		"no chartable timeframes",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected summary to contain %q, got:\n%s", want, text)
		}
	}

	var cpuLine string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "CPU ") {
			cpuLine = line
		}
	}
	if fields := strings.Fields(cpuLine); len(fields) != 6 || fields[1] != "1-min" || fields[2] != "2" || fields[5] != "9.33" {
		t.Fatalf("unexpected CPU row %q", cpuLine)
	}
	if strings.Contains(text, "\x1b[") {
		t.Fatal("expected no ANSI escapes when writing to a buffer")
	}
}

func TestWriteSummaryEmptyReport(t *testing.T) {
	var out bytes.Buffer
	if err := WriteSummary(&models.Report{}, &out); err != nil {
		t.Fatalf("writeSummary failed: %v", err)
	}
	if !strings.Contains(out.String(), "No resources could be retrieved.") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Host: unknown") {
		t.Fatalf("expected unknown host, got:\n%s", out.String())
	}
}

func TestWriteSummaryRejectsNil(t *testing.T) {
	if err := WriteSummary(nil, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for nil report")
	}
	if err := WriteSummary(&models.Report{}, nil); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestTruncateTextValue(t *testing.T) {
	cases := []struct {
		value string
		width int
		want  string
	}{
		{value: "CPU", width: 10, want: "CPU"},
		{value: "FORTICLOUD_LOGRATE", width: 10, want: "FORTICLOU~"},
		{value: "anything", width: 0, want: "anything"},
	}
	for _, tc := range cases {
		if got := truncateTextValue(tc.value, tc.width); got != tc.want {
			t.Fatalf("truncateTextValue(%q, %d) = %q, want %q", tc.value, tc.width, got, tc.want)
		}
	}
}
