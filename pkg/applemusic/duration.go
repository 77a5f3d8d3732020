package applemusic

import "fmt"

// FormatDuration formats a duration in milliseconds as M:SS or H:MM:SS.
func FormatDuration(ms int64) string {
	if ms <= 0 {
		return "0:00"
	}

	seconds := ms / 1000
	minutes := seconds / 60
	hours := minutes / 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes%60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds%60)
}
