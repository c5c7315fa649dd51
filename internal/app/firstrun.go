package app

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	markerFileName = "first_run_completed"
	appName        = "resmon"
)

// GetAppConfigDir returns the path to the application's configuration directory.
func GetAppConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// IsFirstRun reports whether resmon has not run before for this user and
// records the run. Errors are logged and count as "not first run".
func IsFirstRun() bool {
	appConfigDir, err := GetAppConfigDir()
	if err != nil {
		slog.Debug("failed to get app config directory", slog.String("error", err.Error()))
		return false
	}

	markerFilePath := filepath.Join(appConfigDir, markerFileName)
	_, err = os.Stat(markerFilePath)
	switch {
	case err == nil:
		return false
	case !errors.Is(err, fs.ErrNotExist):
		slog.Debug("failed to check first run marker file", slog.String("path", markerFilePath), slog.String("error", err.Error()))
		return false
	}

	if err := os.MkdirAll(appConfigDir, 0755); err != nil {
		slog.Debug("failed to create app config directory", slog.String("path", appConfigDir), slog.String("error", err.Error()))
		return false
	}
	if err := os.WriteFile(markerFilePath, nil, 0644); err != nil {
		slog.Debug("failed to create first run marker file", slog.String("path", markerFilePath), slog.String("error", err.Error()))
		return false
	}
	slog.Debug("first run detected and marker created", slog.String("path", markerFilePath))
	return true
}

// FirstRunHint is printed once, before the first report run.
const FirstRunHint = `First run: resmon reads the API base URL and access token from
--base-url/--access-token, RESMON_BASE_URL/RESMON_ACCESS_TOKEN or
base_url/access_token in ./.resmon.yaml or ~/.resmon.yaml.
`
