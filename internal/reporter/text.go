package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/resmon/internal/models"
)

// WriteSummary prints a per-chart summary table. Headers are styled only
// when out is a terminal.
func WriteSummary(report *models.Report, out io.Writer) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	if out == nil {
		return fmt.Errorf("writer is nil")
	}

	if _, err := io.WriteString(out, renderSummary(report, lipgloss.NewRenderer(out))); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func renderSummary(report *models.Report, r *lipgloss.Renderer) string {
	var b strings.Builder
	header := r.NewStyle().Bold(true)
	dim := r.NewStyle().Faint(true)

	generatedAt := "unknown"
	if !report.Metadata.GeneratedAt.IsZero() {
		generatedAt = report.Metadata.GeneratedAt.Format(time.RFC3339)
	}
	host := strings.TrimSpace(report.Metadata.Host)
	if host == "" {
		host = "unknown"
	}

	writeSectionHeader(&b, header, "Resource Usage Summary")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt)
	fmt.Fprintf(&b, "Host: %s\n", host)
	fmt.Fprintf(&b, "Resources: %d, charts: %d\n", len(report.Resources), report.ChartCount())
	b.WriteString("\n")

	if len(report.Resources) == 0 {
		b.WriteString(dim.Render("No resources could be retrieved.") + "\n")
		return b.String()
	}

	b.WriteString(header.Render(fmt.Sprintf("%-20s %-10s %7s %12s %12s %12s", "RESOURCE", "TIMEFRAME", "POINTS", "MIN", "MAX", "AVG")) + "\n")
	b.WriteString(strings.Repeat("-", 78) + "\n")
	for _, section := range report.Resources {
		if len(section.Charts) == 0 {
			fmt.Fprintf(&b, "%-20s %s\n", truncateTextValue(section.Name, 20), dim.Render("no chartable timeframes"))
			continue
		}
		for _, c := range section.Charts {
			fmt.Fprintf(&b, "%-20s %-10s %7d %12s %12s %12s\n",
				truncateTextValue(section.Name, 20),
				truncateTextValue(c.Timeframe, 10),
				c.Points,
				c.Stats.Min.String(),
				c.Stats.Max.String(),
				c.Stats.Average.String(),
			)
		}
	}
	return b.String()
}

func writeSectionHeader(b *strings.Builder, style lipgloss.Style, title string) {
	fmt.Fprintf(b, "%s\n", style.Render(title))
	fmt.Fprintf(b, "%s\n", strings.Repeat("-", len(title)))
}

func truncateTextValue(value string, width int) string {
	if width <= 0 || len(value) <= width {
		return value
	}
	return value[:width-1] + "~"
}
