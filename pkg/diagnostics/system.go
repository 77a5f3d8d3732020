package diagnostics

import (
	"net"
	"os"
	"path/filepath"
	"runtime"
)

// SuggestedPath is a download destination offered by the UI.
type SuggestedPath struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// SystemInfo describes the host for the UI's path suggestions.
type SystemInfo struct {
	CurrentDirectory string          `json:"current_directory"`
	DownloadsFolder  string          `json:"downloads_folder"`
	Platform         string          `json:"platform"`
	HomeDirectory    string          `json:"home_directory"`
	SuggestedPaths   []SuggestedPath `json:"suggested_paths"`
}

// CollectSystemInfo gathers host facts and per-platform path suggestions.
func CollectSystemInfo(downloadsDir string) SystemInfo {
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	absDownloads, err := filepath.Abs(downloadsDir)
	if err != nil {
		absDownloads = downloadsDir
	}

	info := SystemInfo{
		CurrentDirectory: cwd,
		DownloadsFolder:  absDownloads,
		Platform:         runtime.GOOS,
		HomeDirectory:    home,
	}

	switch runtime.GOOS {
	case "windows":
		info.SuggestedPaths = []SuggestedPath{
			{Path: `%USERPROFILE%\Music`, Name: "Music folder"},
			{Path: `%USERPROFILE%\Downloads`, Name: "Downloads folder"},
			{Path: `%USERPROFILE%\Desktop`, Name: "Desktop"},
			{Path: `.\downloads`, Name: "Local downloads folder"},
		}
	default:
		info.SuggestedPaths = []SuggestedPath{
			{Path: "~/Music", Name: "Music folder"},
			{Path: "~/Downloads", Name: "Downloads folder"},
			{Path: "~/Desktop", Name: "Desktop"},
			{Path: "./downloads", Name: "Local downloads folder"},
		}
	}
	return info
}

// OutboundIP discovers the local address used for outbound traffic, for the
// startup banner. Falls back to localhost when offline.
func OutboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "localhost"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "localhost"
}
