package reporter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/ppiankov/resmon/internal/encoder"
	"github.com/ppiankov/resmon/internal/models"
	"github.com/ppiankov/resmon/pkg/config"
)

//go:embed templates/report.html.tmpl
var templates embed.FS

var reportTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"imageSrc": imageSrc,
}).ParseFS(templates, "templates/report.html.tmpl"))

// WriteHTML renders the report as a single self-contained HTML file
func WriteHTML(report *models.Report, cfg *config.Config) (string, error) {
	data, err := RenderHTML(report)
	if err != nil {
		return "", err
	}
	return writeReportFile(cfg.OutputDir, FileName(reportTime(report), "html"), data)
}

// RenderHTML executes the embedded report template.
func RenderHTML(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}

// imageSrc marks inline PNG data URIs as safe. Anything else is left to the
// template's own URL filtering.
func imageSrc(uri string) any {
	if strings.HasPrefix(uri, encoder.PNGPrefix) {
		return template.URL(uri)
	}
	return uri
}
