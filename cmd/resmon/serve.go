package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ppiankov/resmon/internal/reporter"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var dir string
	var port int

	cmd := &cobra.Command{
		Use:   "serve [directory]",
		Short: "Serve the reports directory",
		Long: `Start a local HTTP server to browse generated reports.
The reports will be available at http://localhost:PORT`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				dir = args[0]
			}

			latest, err := latestReport(dir)
			if err != nil {
				return err
			}
			return runServe(dir, latest, port)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./reports", "Directory to serve")
	cmd.Flags().IntVar(&port, "port", 8080, "Port to serve on")

	return cmd
}

// latestReport returns the newest report_*.html file name in dir.
func latestReport(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("directory not found: %s", dir)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, reporter.FilePrefix+"*.html"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%s*.html report not found in %s\nRun 'resmon report' first to generate one", reporter.FilePrefix, dir)
	}

	// timestamped names sort chronologically
	sort.Strings(matches)
	return filepath.Base(matches[len(matches)-1]), nil
}

// runServe starts the HTTP server
func runServe(dir, latest string, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(dir)))
	addr := fmt.Sprintf(":%d", port)

	url := "http://localhost:" + strconv.Itoa(port)
	fmt.Fprintf(os.Stderr, "Serving %s at %s (Ctrl+C to stop)\n", dir, url)
	fmt.Fprintf(os.Stderr, "Latest report: %s/%s\n", url, latest)
	slog.Debug("report server started",
		slog.String("url", url),
		slog.String("dir", dir),
	)

	if err := http.ListenAndServe(addr, mux); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
