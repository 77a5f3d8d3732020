package initialization

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"gamdlweb/pkg/config"
	"gamdlweb/pkg/logger"
)

func interpreterPath(toolDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(toolDir, "Scripts", "python.exe")
	}
	return filepath.Join(toolDir, "bin", "python")
}

func TestResolveInterpreterFromToolDir(t *testing.T) {
	logger.Init("DEBUG")

	fs := afero.NewMemMapFs()
	cfg := config.Defaults(".")
	candidate := interpreterPath(cfg.ToolDir)
	if err := afero.WriteFile(fs, candidate, []byte("#!"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveInterpreter(fs, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != candidate {
		t.Errorf("expected %q, got %q", candidate, got)
	}
}

func TestResolveInterpreterBrokenToolDir(t *testing.T) {
	logger.Init("DEBUG")

	// Tool dir exists but contains no interpreter. This must be fatal even
	// though python may be on PATH, since the environment is half-created.
	fs := afero.NewMemMapFs()
	cfg := config.Defaults(".")
	if err := fs.MkdirAll(cfg.ToolDir, 0755); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveInterpreter(fs, cfg)
	if err == nil {
		t.Fatal("expected error for tool dir without interpreter")
	}
	if !strings.Contains(err.Error(), "python3 -m venv") {
		t.Errorf("error should tell the user how to recreate the environment: %v", err)
	}
}

func TestResolveInterpreterNothingAvailable(t *testing.T) {
	logger.Init("DEBUG")

	fs := afero.NewMemMapFs()
	cfg := config.Defaults(".")
	cfg.Interpreter = "definitely-not-a-real-python-binary"

	_, err := ResolveInterpreter(fs, cfg)
	if err == nil {
		t.Fatal("expected error when neither tool dir nor PATH interpreter exists")
	}
	if !strings.Contains(err.Error(), cfg.ToolDir) {
		t.Errorf("error should name the tool dir: %v", err)
	}

	// The fatal tool environment check happens before any working directory
	// is created: nothing may exist on the filesystem afterwards.
	for _, dir := range []string{cfg.UploadsDir, cfg.DownloadsDir} {
		if ok, _ := afero.DirExists(fs, dir); ok {
			t.Errorf("directory %q must not be created on fatal startup", dir)
		}
	}
}

func TestEnsureDependenciesProbeSucceeds(t *testing.T) {
	logger.Init("DEBUG")

	var calls [][]string
	run := func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}

	err := EnsureDependencies(run, "python3", []string{"gamdl", "requests", "mutagen"}, "web_requirements.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected only the probe to run, got %d calls", len(calls))
	}
	if calls[0][1] != "-c" || calls[0][2] != "import gamdl, requests, mutagen" {
		t.Errorf("unexpected probe invocation: %v", calls[0])
	}
}

func TestEnsureDependenciesInstallsOnProbeFailure(t *testing.T) {
	logger.Init("DEBUG")

	var calls [][]string
	run := func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		if len(calls) == 1 {
			return errors.New("ModuleNotFoundError")
		}
		return nil
	}

	err := EnsureDependencies(run, "python3", []string{"gamdl"}, "web_requirements.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected probe then install, got %d calls", len(calls))
	}
	install := strings.Join(calls[1], " ")
	if install != "python3 -m pip install -r web_requirements.txt" {
		t.Errorf("unexpected install invocation: %q", install)
	}
}

func TestEnsureDependenciesInstallFailureIsFatal(t *testing.T) {
	logger.Init("DEBUG")

	run := func(name string, args ...string) error {
		return errors.New("no network")
	}
	if err := EnsureDependencies(run, "python3", []string{"gamdl"}, "web_requirements.txt"); err == nil {
		t.Error("expected install failure to be fatal")
	}
}

func TestCheckCookiesIsNonFatal(t *testing.T) {
	logger.Init("DEBUG")

	fs := afero.NewMemMapFs()
	if CheckCookies(fs, "/data/cookies.txt") {
		t.Error("missing cookies should report false")
	}

	if err := afero.WriteFile(fs, "/data/cookies.txt", []byte("# cookies"), 0644); err != nil {
		t.Fatal(err)
	}
	if !CheckCookies(fs, "/data/cookies.txt") {
		t.Error("present cookies should report true")
	}
}

func TestEnsureWorkDirsIdempotent(t *testing.T) {
	logger.Init("DEBUG")

	fs := afero.NewMemMapFs()
	for i := 0; i < 2; i++ {
		if err := EnsureWorkDirs(fs, "/data/uploads", "/data/downloads"); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i+1, err)
		}
	}

	for _, dir := range []string{"/data/uploads", "/data/downloads"} {
		ok, _ := afero.DirExists(fs, dir)
		if !ok {
			t.Errorf("directory %q missing", dir)
		}
	}
}

func TestMissingCookiesDoesNotBlockWorkDirs(t *testing.T) {
	logger.Init("DEBUG")

	// Startup order: the cookies warning is advisory and the working
	// directories are still created afterwards.
	fs := afero.NewMemMapFs()
	cfg := config.Defaults("/data")

	CheckCookies(fs, cfg.CookiesPath)
	if err := EnsureWorkDirs(fs, cfg.UploadsDir, cfg.DownloadsDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, _ := afero.DirExists(fs, cfg.UploadsDir)
	if !ok {
		t.Error("uploads dir must be created despite missing cookies")
	}
}
