package config

import (
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults("/data")

	if cfg.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Port)
	}
	if cfg.Interpreter != "python3" || cfg.ToolDir != "venv" {
		t.Errorf("pipeline defaults wrong: %s / %s", cfg.Interpreter, cfg.ToolDir)
	}
	if cfg.CookiesPath != filepath.Join("/data", "cookies.txt") {
		t.Errorf("unexpected cookies path %s", cfg.CookiesPath)
	}
	if cfg.UploadsDir != filepath.Join("/data", "uploads") || cfg.DownloadsDir != filepath.Join("/data", "downloads") {
		t.Errorf("work dirs wrong: %s / %s", cfg.UploadsDir, cfg.DownloadsDir)
	}
	if cfg.DownloadTimeoutSeconds != 600 {
		t.Errorf("expected 600s timeout, got %d", cfg.DownloadTimeoutSeconds)
	}
	if len(cfg.RequiredModules) != 3 {
		t.Errorf("expected 3 probed modules, got %v", cfg.RequiredModules)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Defaults(dir)
	cfg.Port = 8080
	cfg.LogLevel = "DEBUG"
	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded := Defaults(dir)
	if err := loaded.LoadFile(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Port != 8080 || loaded.LogLevel != "DEBUG" {
		t.Errorf("roundtrip lost values: %+v", loaded)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := Defaults(t.TempDir())
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if cfg.Port != 5000 {
		t.Error("defaults must survive a failed load")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GAMDL_INTERPRETER", "/usr/bin/python3.12")
	t.Setenv("DOWNLOAD_TIMEOUT_SECONDS", "120")

	cfg := Defaults("/data")
	if err := cfg.ApplyEnvOverrides(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("PORT override not applied, got %d", cfg.Port)
	}
	if cfg.Interpreter != "/usr/bin/python3.12" {
		t.Errorf("interpreter override not applied, got %s", cfg.Interpreter)
	}
	if cfg.DownloadTimeoutSeconds != 120 {
		t.Errorf("timeout override not applied, got %d", cfg.DownloadTimeoutSeconds)
	}

	// Unset variables leave file values alone.
	if cfg.LogLevel != "INFO" || cfg.ToolDir != "venv" {
		t.Errorf("unset env vars clobbered values: %+v", cfg)
	}
}
