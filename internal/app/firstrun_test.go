package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsFirstRunCreatesMarker(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	appDir, err := GetAppConfigDir()
	if err != nil {
		t.Fatalf("GetAppConfigDir failed: %v", err)
	}

	if !IsFirstRun() {
		t.Fatal("expected first run on a clean config dir")
	}
	if _, err := os.Stat(filepath.Join(appDir, markerFileName)); err != nil {
		t.Fatalf("expected marker file, got %v", err)
	}
	if IsFirstRun() {
		t.Fatal("expected second call to report not first run")
	}
}

func TestIsFirstRunUnwritableConfigDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "config")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", blocker)
	t.Setenv("HOME", blocker)

	if IsFirstRun() {
		t.Fatal("expected false when the config dir cannot be created")
	}
}
