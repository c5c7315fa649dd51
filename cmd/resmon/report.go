package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/ppiankov/resmon/internal/analyzer"
	"github.com/ppiankov/resmon/internal/chart"
	"github.com/ppiankov/resmon/internal/collector"
	"github.com/ppiankov/resmon/internal/metrics"
	"github.com/ppiankov/resmon/internal/models"
	"github.com/ppiankov/resmon/internal/reporter"
	"github.com/ppiankov/resmon/pkg/config"
	"github.com/spf13/cobra"
)

// flagKeys maps flags that have a config file or environment counterpart
// to their setting key.
var flagKeys = map[string]string{
	"base-url":          config.KeyBaseURL,
	"access-token":      config.KeyAccessToken,
	"cert-file":         config.KeyCertFile,
	"no-ssl-verify":     config.KeyNoSSLVerify,
	"scope":             config.KeyScope,
	"resource":          config.KeyResources,
	"output":            config.KeyOutputDir,
	"format":            config.KeyFormat,
	"timeout":           config.KeyTimeout,
	"exclude-timeframe": config.KeyExcludeTimeframes,
}

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	var (
		resources  []string
		scopeStr   string
		timeoutStr string
		configPath string
	)

	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"generate"},
		Short:   "Fetch resource usage and write a report",
		Long: `Fetch the historical usage of each requested resource, render one chart
per timeframe and write reports/report_YYYYMMDD_HHMMSS.html.

Settings are resolved as flags, then RESMON_* environment variables,
then .resmon.yaml (current directory, then home directory).`,
		Example: `  resmon report --base-url https://fw:8443 --access-token TOKEN -r cpu,mem
  resmon report -r cpu -r disk --scope vdom --cert-file fw-ca.pem
  RESMON_ACCESS_TOKEN=TOKEN resmon report --base-url https://fw --no-ssl-verify`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			explicit := config.Explicit{}
			for flag, key := range flagKeys {
				if cmd.Flags().Changed(flag) {
					explicit[key] = true
				}
			}

			if explicit[config.KeyResources] {
				keys, err := models.ParseResourceKeys(resources)
				if err != nil {
					return fmt.Errorf("invalid --resource value: %w", err)
				}
				cfg.Resources = keys
			}
			if explicit[config.KeyScope] {
				scope, err := models.ParseScope(scopeStr)
				if err != nil {
					return fmt.Errorf("invalid --scope value: %w", err)
				}
				cfg.Scope = scope
			}
			if explicit[config.KeyTimeout] {
				timeout, err := config.ParseDuration(timeoutStr)
				if err != nil {
					return fmt.Errorf("invalid --timeout duration: %w", err)
				}
				cfg.Timeout = timeout
			}

			fileCfg, loadedPath, err := loadConfigFile(configPath)
			if err != nil {
				return err
			}
			if loadedPath != "" {
				slog.Debug("loaded config file", slog.String("path", loadedPath))
			}
			if err := cfg.ApplyFile(fileCfg, explicit); err != nil {
				return err
			}
			if err := cfg.ApplyEnv(config.LoadEnv(), explicit); err != nil {
				return err
			}

			cfg.Normalize()
			cfg.Verbose = verbose
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	// API flags
	cmd.Flags().StringVar(&cfg.BaseURL, "base-url", "", "API base URL, e.g. https://fw.example.com:8443")
	cmd.Flags().StringVar(&cfg.AccessToken, "access-token", "", "REST API access token")
	cmd.Flags().StringVar(&scopeStr, "scope", string(models.ScopeGlobal), "Query scope (global or vdom)")
	cmd.Flags().StringSliceVarP(&resources, "resource", "r", nil, "Resource to report (repeatable or comma-separated; default: all but gtp_*)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: ./.resmon.yaml, then ~/.resmon.yaml)")

	// TLS flags
	cmd.Flags().BoolVar(&cfg.NoSSLVerify, "no-ssl-verify", false, "Disable TLS certificate verification")
	cmd.Flags().StringVar(&cfg.CertFile, "cert-file", "", "PEM bundle used as the only trusted CA")

	// Fetch flags
	cmd.Flags().StringVar(&timeoutStr, "timeout", "", "Per-resource fetch timeout including retries (e.g., 30s, 2m)")
	cmd.Flags().IntVar(&cfg.Retries, "retries", 0, "Retries for transient fetch errors")
	cmd.Flags().IntVar(&cfg.RateLimit, "rate-limit", 0, "Max API requests per second (0 = unlimited)")
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", 1, "Resources fetched in parallel")

	// Output flags
	cmd.Flags().StringVar(&cfg.OutputDir, "output", "./reports", "Output directory")
	cmd.Flags().StringVar(&cfg.Format, "format", config.FormatHTML, "Output format (html or json)")
	cmd.Flags().StringSliceVar(&cfg.ExcludeTimeframes, "exclude-timeframe", nil, "Timeframe label or glob to leave out (e.g., 1-week, *-min)")
	cmd.Flags().StringVar(&cfg.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus textfile format")

	// Operational flags
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Fetch and render but don't write output")

	return cmd
}

func loadConfigFile(path string) (*config.FileConfig, string, error) {
	if path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		return fileCfg, path, nil
	}
	return config.AutoLoadFile()
}

// runReport executes the fetch, render and write workflow
func runReport(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()
	rec := metrics.NewRecorder()

	slog.Debug("starting report",
		slog.String("base_url", cfg.APIBaseURL()),
		slog.String("access_token", config.MaskSecret(cfg.AccessToken)),
		slog.String("scope", string(cfg.Scope)),
		slog.Any("resources", models.ResourceNames(cfg.Resources)),
		slog.Int("concurrency", cfg.Concurrency),
	)

	// 1. Fetch
	col, err := collector.New(cfg, rec)
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}
	fmt.Fprintf(out, "Fetching %d resource(s) from %s...\n", len(cfg.Resources), cfg.Host())
	histories := col.Collect(ctx, cfg.Resources)
	fmt.Fprintf(out, "Fetched %d of %d resource(s)\n", len(histories), len(cfg.Resources))

	// 2. Normalize, render, encode
	an := analyzer.New(cfg, chart.NewRenderer(), rec)
	report, err := an.Analyze(ctx, histories)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	report.Metadata = buildMetadata(cfg, startTime)

	// 3. Write
	if cfg.DryRun {
		fmt.Fprintln(out, "Dry run mode - skipping report output")
	} else {
		path, err := reporter.New(cfg).Generate(report)
		if err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		size := "unknown size"
		if info, err := os.Stat(path); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		fmt.Fprintf(out, "Report saved as %s (%s)\n", path, size)
	}

	if err := reporter.WriteSummary(report, out); err != nil {
		return err
	}

	rec.MarkRun(time.Now())
	if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
		return err
	}
	return nil
}

func buildMetadata(cfg *config.Config, startTime time.Time) models.Metadata {
	return models.Metadata{
		Tool:        "resmon",
		Version:     version,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Host:        cfg.Host(),
		Scope:       cfg.Scope,
		Requested:   models.ResourceNames(cfg.Resources),
		Duration:    time.Since(startTime).Round(time.Millisecond).String(),
	}
}
