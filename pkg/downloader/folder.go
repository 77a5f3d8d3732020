package downloader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"

	"gamdlweb/pkg/applemusic"
	"gamdlweb/pkg/logger"
)

var invalidFolderChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// FolderName builds the per-download folder name from preview metadata:
// a timestamp prefix for uniqueness plus a human readable description.
func FolderName(metadata []applemusic.Metadata, downloadID string, now time.Time) string {
	short := downloadID
	if len(short) > 8 {
		short = short[:8]
	}

	var name string
	switch {
	case len(metadata) == 1 && metadata[0].Type == applemusic.TypeSong:
		item := metadata[0]
		name = fmt.Sprintf("%s - %s (%s)", orUnknown(item.Artist), orUnknown(item.Title), short)
	case len(metadata) == 1:
		name = fmt.Sprintf("%s (%s)", orUnknown(metadata[0].Title), short)
	default:
		name = fmt.Sprintf("Multiple Downloads (%d items) - %s", len(metadata), short)
	}

	name = invalidFolderChars.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, "..", "_")

	return fmt.Sprintf("%s_%s", now.Format("20060102_150405"), name)
}

// CreateFolder creates the unique download folder under basePath, falling
// back to a bare id-based folder if the descriptive one cannot be created.
func CreateFolder(fs afero.Fs, basePath string, metadata []applemusic.Metadata, downloadID string) (string, error) {
	folder := filepath.Join(basePath, FolderName(metadata, downloadID, time.Now()))
	if err := fs.MkdirAll(folder, 0755); err == nil {
		return folder, nil
	} else {
		logger.Warn("Failed to create download folder, using fallback", "folder", folder, "err", err)
	}

	short := downloadID
	if len(short) > 8 {
		short = short[:8]
	}
	fallback := filepath.Join(basePath, "gamdl_download_"+short)
	if err := fs.MkdirAll(fallback, 0755); err != nil {
		return "", fmt.Errorf("failed to create download folder: %w", err)
	}
	return fallback, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
