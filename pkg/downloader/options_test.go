package downloader

import (
	"slices"
	"testing"
)

func TestBasicOptionsArgs(t *testing.T) {
	opts := BasicOptions("/data/cookies.txt")
	args := opts.Args([]string{"https://music.apple.com/us/album/x/1"})

	want := []string{
		"-c", "/data/cookies.txt",
		"--log-level", "INFO",
		"--no-exceptions",
		"--save-cover",
		"https://music.apple.com/us/album/x/1",
	}
	if !slices.Equal(args, want) {
		t.Errorf("basic args wrong:\n got %v\nwant %v", args, want)
	}
}

func TestAdvancedOptionsArgs(t *testing.T) {
	opts := Options{
		Mode:                  "advanced",
		CookiesPath:           "/data/cookies.txt",
		OutputPath:            "/music",
		Language:              "en-US",
		CoverFormat:           "png",
		CodecSong:             "alac",
		QualityPost:           "best",
		LogLevel:              "DEBUG",
		SavePlaylist:          true,
		Overwrite:             true,
		NoSyncedLyrics:        true,
		SyncedLyricsOnly:      true,
		DisableMusicVideoSkip: true,
	}
	args := opts.Args([]string{"url1", "url2"})

	for _, flag := range []string{
		"--cover-format", "--codec-song", "--quality-post", "--no-exceptions",
		"--save-playlist", "--overwrite", "--no-synced-lyrics",
		"--synced-lyrics-only", "--disable-music-video-skip",
	} {
		if !slices.Contains(args, flag) {
			t.Errorf("missing flag %s in %v", flag, args)
		}
	}
	if slices.Contains(args, "--save-cover") {
		t.Error("save-cover should be off unless requested")
	}
	if args[len(args)-2] != "url1" || args[len(args)-1] != "url2" {
		t.Errorf("urls must come last, got %v", args)
	}
}
