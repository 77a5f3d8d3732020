package paths

import (
	"os"
	"path/filepath"
)

// GetDataDir returns the data directory path.
// If running in Docker (/.dockerenv exists), returns /app/data.
// Otherwise returns current directory (.)
func GetDataDir() string {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		// Running in Docker container
		return "/app/data"
	}
	return "."
}

// CookiesPath returns the default cookies.txt location inside the data dir.
func CookiesPath(dataDir string) string {
	return filepath.Join(dataDir, "cookies.txt")
}

// UploadsDir returns the uploads working directory inside the data dir.
func UploadsDir(dataDir string) string {
	return filepath.Join(dataDir, "uploads")
}

// DownloadsDir returns the downloads working directory inside the data dir.
func DownloadsDir(dataDir string) string {
	return filepath.Join(dataDir, "downloads")
}
