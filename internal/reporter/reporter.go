package reporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ppiankov/resmon/internal/models"
	"github.com/ppiankov/resmon/pkg/config"
)

// FilePrefix starts every generated report file name.
const FilePrefix = "report_"

const fileTimeLayout = "20060102_150405"

// Reporter interface for generating reports
type Reporter interface {
	// Generate writes the report and returns the path of the written file.
	Generate(report *models.Report) (string, error)
}

// reporter implements the Reporter interface
type reporter struct {
	config *config.Config
}

// New creates a new reporter instance
func New(cfg *config.Config) Reporter {
	return &reporter{
		config: cfg,
	}
}

// Generate generates the report in the configured format
func (r *reporter) Generate(report *models.Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report is nil")
	}

	switch r.config.Format {
	case config.FormatJSON:
		return WriteJSON(report, r.config)
	default:
		return WriteHTML(report, r.config)
	}
}

// FileName returns report_YYYYMMDD_HHMMSS.<ext> for t in local time.
func FileName(t time.Time, ext string) string {
	return FilePrefix + t.Local().Format(fileTimeLayout) + "." + ext
}

func reportTime(report *models.Report) time.Time {
	if report.Metadata.GeneratedAt.IsZero() {
		return time.Now()
	}
	return report.Metadata.GeneratedAt
}

// writeReportFile writes data under outputDir, creating the directory first.
func writeReportFile(outputDir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, name)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	slog.Info("report written",
		slog.String("path", outputPath),
		slog.String("size", humanize.Bytes(uint64(len(data)))),
	)
	return outputPath, nil
}
