package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"gamdlweb/pkg/logger"
	"gamdlweb/pkg/paths"
)

// Config holds application configuration
type Config struct {
	// HTTP server settings
	Port    int    `json:"port"`
	BaseURL string `json:"base_url"`

	// Logging
	LogLevel string `json:"log_level"`

	// gamdl pipeline settings
	Interpreter      string   `json:"interpreter"`       // Python interpreter used to run gamdl
	ToolDir          string   `json:"tool_dir"`          // virtual environment directory
	RequirementsFile string   `json:"requirements_file"` // pip requirements installed when the probe fails
	RequiredModules  []string `json:"required_modules"`  // modules probed at startup

	// Filesystem contract
	CookiesPath  string `json:"cookies_path"`
	UploadsDir   string `json:"uploads_dir"`
	DownloadsDir string `json:"downloads_dir"`

	// Download orchestration
	DownloadTimeoutSeconds int `json:"download_timeout_seconds"`
	TaskTTLMinutes         int `json:"task_ttl_minutes"`
	MaxUploadMB            int `json:"max_upload_mb"`
	CacheTTLSeconds        int `json:"cache_ttl_seconds"`

	// Internal - where was this config loaded from?
	LoadedPath string `json:"-"`
}

// overrides mirrors Config with pointer fields so unset environment
// variables stay nil and never clobber file values.
type overrides struct {
	Port                   *int    `env:"PORT"`
	BaseURL                *string `env:"BASE_URL"`
	LogLevel               *string `env:"LOG_LEVEL"`
	Interpreter            *string `env:"GAMDL_INTERPRETER"`
	ToolDir                *string `env:"GAMDL_TOOL_DIR"`
	CookiesPath            *string `env:"COOKIES_PATH"`
	UploadsDir             *string `env:"UPLOADS_DIR"`
	DownloadsDir           *string `env:"DOWNLOADS_DIR"`
	DownloadTimeoutSeconds *int    `env:"DOWNLOAD_TIMEOUT_SECONDS"`
	TaskTTLMinutes         *int    `env:"TASK_TTL_MINUTES"`
	MaxUploadMB            *int    `env:"MAX_UPLOAD_MB"`
	CacheTTLSeconds        *int    `env:"CACHE_TTL_SECONDS"`
}

// Load is intended for startup only. It loads configuration from config.json,
// applies environment variable overrides once, then saves the merged config.
// Priority: Environment variables (if set) > config.json > defaults
func Load() (*Config, error) {
	dataDir := paths.GetDataDir()
	configPath := filepath.Join(dataDir, "config.json")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		logger.Warn("Failed to create data directory", "dir", dataDir, "err", err)
	}

	cfg := Defaults(dataDir)
	cfg.LoadedPath = configPath

	if err := cfg.LoadFile(configPath); err != nil {
		if os.IsNotExist(err) {
			logger.Info("No config found, creating new one", "path", configPath)
		} else {
			logger.Warn("Failed to load config, using defaults", "path", configPath, "err", err)
		}
	} else {
		logger.Info("Loaded configuration", "path", configPath)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		logger.Warn("Failed to parse environment overrides", "err", err)
	}

	if err := cfg.Save(); err != nil {
		logger.Warn("Failed to save config on startup", "err", err)
	} else {
		logger.Info("Saved merged configuration", "path", configPath)
	}

	return cfg, nil
}

// Defaults returns a Config populated with default values for the given data dir.
func Defaults(dataDir string) *Config {
	return &Config{
		Port:                   5000,
		BaseURL:                "http://localhost:5000",
		LogLevel:               "INFO",
		Interpreter:            "python3",
		ToolDir:                "venv",
		RequirementsFile:       "web_requirements.txt",
		RequiredModules:        []string{"gamdl", "requests", "mutagen"},
		CookiesPath:            paths.CookiesPath(dataDir),
		UploadsDir:             paths.UploadsDir(dataDir),
		DownloadsDir:           paths.DownloadsDir(dataDir),
		DownloadTimeoutSeconds: 600,
		TaskTTLMinutes:         30,
		MaxUploadMB:            16,
		CacheTTLSeconds:        300,
	}
}

// LoadFile overrides config with values from a JSON file
func (c *Config) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(c)
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Only variables that are actually set take effect.
func (c *Config) ApplyEnvOverrides() error {
	var o overrides
	if err := env.Parse(&o); err != nil {
		return err
	}
	if o.Port != nil {
		c.Port = *o.Port
	}
	if o.BaseURL != nil {
		c.BaseURL = *o.BaseURL
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.Interpreter != nil {
		c.Interpreter = *o.Interpreter
	}
	if o.ToolDir != nil {
		c.ToolDir = *o.ToolDir
	}
	if o.CookiesPath != nil {
		c.CookiesPath = *o.CookiesPath
	}
	if o.UploadsDir != nil {
		c.UploadsDir = *o.UploadsDir
	}
	if o.DownloadsDir != nil {
		c.DownloadsDir = *o.DownloadsDir
	}
	if o.DownloadTimeoutSeconds != nil {
		c.DownloadTimeoutSeconds = *o.DownloadTimeoutSeconds
	}
	if o.TaskTTLMinutes != nil {
		c.TaskTTLMinutes = *o.TaskTTLMinutes
	}
	if o.MaxUploadMB != nil {
		c.MaxUploadMB = *o.MaxUploadMB
	}
	if o.CacheTTLSeconds != nil {
		c.CacheTTLSeconds = *o.CacheTTLSeconds
	}
	return nil
}

// Save saves the current configuration to the file it was loaded from
func (c *Config) Save() error {
	path := c.LoadedPath
	if path == "" {
		path = "config.json"
	}
	return c.SaveFile(path)
}

// SaveFile saves the current configuration to a JSON file
func (c *Config) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}
