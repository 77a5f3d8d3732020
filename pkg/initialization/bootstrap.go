package initialization

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"gamdlweb/pkg/config"
	"gamdlweb/pkg/logger"
)

// Components holds everything initialized during bootstrap.
type Components struct {
	Config      *config.Config
	Interpreter string
	Fs          afero.Fs
}

// CommandRunner executes an external command. Tests substitute a fake.
type CommandRunner func(name string, args ...string) error

func defaultRunner(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// WaitForInputAndExit prints an error and waits for user input before exiting
func WaitForInputAndExit(err error) {
	fmt.Printf("\n❌ CRITICAL ERROR: %v\n", err)
	fmt.Println("\nPress Enter to exit...")
	var input string
	fmt.Scanln(&input)
	os.Exit(1)
}

// Bootstrap coordinates the application startup sequence: tool environment
// check, dependency probe/install, cookies warning and working directory
// creation, in that order. A missing tool environment is fatal and happens
// before any directory is created.
func Bootstrap() (*Components, error) {
	fs := afero.NewOsFs()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	// 2. Tool environment
	interpreter, err := ResolveInterpreter(fs, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Tool environment ready", "interpreter", interpreter)

	// 3. Dependencies
	if err := EnsureDependencies(defaultRunner, interpreter, cfg.RequiredModules, cfg.RequirementsFile); err != nil {
		return nil, err
	}

	// 4. Cookies (non-fatal)
	CheckCookies(fs, cfg.CookiesPath)

	// 5. Working directories
	if err := EnsureWorkDirs(fs, cfg.UploadsDir, cfg.DownloadsDir); err != nil {
		return nil, err
	}
	logger.Info("Directories ready", "uploads", cfg.UploadsDir, "downloads", cfg.DownloadsDir)

	return &Components{
		Config:      cfg,
		Interpreter: interpreter,
		Fs:          fs,
	}, nil
}

// ResolveInterpreter locates the Python interpreter for the gamdl pipeline.
// The configured tool environment directory wins; a bare interpreter on
// PATH is accepted as fallback. Neither present is a fatal precondition.
func ResolveInterpreter(fs afero.Fs, cfg *config.Config) (string, error) {
	if ok, _ := afero.DirExists(fs, cfg.ToolDir); ok {
		candidate := filepath.Join(cfg.ToolDir, "bin", "python")
		if runtime.GOOS == "windows" {
			candidate = filepath.Join(cfg.ToolDir, "Scripts", "python.exe")
		}
		if ok, _ := afero.Exists(fs, candidate); ok {
			return candidate, nil
		}
		return "", fmt.Errorf("tool environment %q exists but has no interpreter at %q - recreate it with: python3 -m venv %s", cfg.ToolDir, candidate, cfg.ToolDir)
	}

	if path, err := exec.LookPath(cfg.Interpreter); err == nil {
		logger.Warn("Tool environment not found, using interpreter from PATH", "dir", cfg.ToolDir, "interpreter", path)
		return path, nil
	}

	return "", fmt.Errorf("tool environment %q not found and %q is not on PATH - create it with: python3 -m venv %s", cfg.ToolDir, cfg.Interpreter, cfg.ToolDir)
}

// EnsureDependencies probes the required Python modules and installs the
// fixed requirements list when the probe fails. An install failure is fatal.
func EnsureDependencies(run CommandRunner, interpreter string, modules []string, requirements string) error {
	probe := fmt.Sprintf("import %s", strings.Join(modules, ", "))
	if err := run(interpreter, "-c", probe); err == nil {
		logger.Info("Dependencies already installed")
		return nil
	}

	logger.Info("Installing dependencies", "requirements", requirements)
	if err := run(interpreter, "-m", "pip", "install", "-r", requirements); err != nil {
		return fmt.Errorf("failed to install dependencies: %w", err)
	}
	logger.Info("Dependencies installed successfully")
	return nil
}

// CheckCookies warns when the credentials file is absent. Never fatal: the
// file can be uploaded later through the web interface.
func CheckCookies(fs afero.Fs, path string) bool {
	if ok, _ := afero.Exists(fs, path); ok {
		logger.Info("Cookies file found", "path", path)
		return true
	}
	logger.Warn("cookies.txt not found", "path", path)
	logger.Warn("You'll need to upload cookies through the web interface")
	return false
}

// EnsureWorkDirs creates the upload and download working directories.
// Creation is idempotent.
func EnsureWorkDirs(fs afero.Fs, uploads, downloads string) error {
	if err := fs.MkdirAll(uploads, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}
	if err := fs.MkdirAll(downloads, 0755); err != nil {
		return fmt.Errorf("failed to create downloads directory: %w", err)
	}
	return nil
}
