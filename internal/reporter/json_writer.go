package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/resmon/internal/models"
	"github.com/ppiankov/resmon/pkg/config"
)

// WriteJSON writes the report without images to report_<ts>.json
func WriteJSON(report *models.Report, cfg *config.Config) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	data = append(data, '\n')

	return writeReportFile(cfg.OutputDir, FileName(reportTime(report), "json"), data)
}
