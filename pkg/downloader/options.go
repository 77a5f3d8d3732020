package downloader

// Options maps one download request onto gamdl command line flags.
type Options struct {
	Mode                  string `json:"mode"`
	CookiesPath           string `json:"cookies_path"`
	OutputPath            string `json:"output_path"`
	Language              string `json:"language"`
	CoverFormat           string `json:"cover_format"`
	CodecSong             string `json:"codec_song"`
	QualityPost           string `json:"quality_post"`
	LogLevel              string `json:"log_level"`
	SaveCover             bool   `json:"save_cover"`
	SavePlaylist          bool   `json:"save_playlist"`
	Overwrite             bool   `json:"overwrite"`
	NoSyncedLyrics        bool   `json:"no_synced_lyrics"`
	SyncedLyricsOnly      bool   `json:"synced_lyrics_only"`
	DisableMusicVideoSkip bool   `json:"disable_music_video_skip"`
	ArtistDownloadType    string `json:"artist_download_type"`
}

// BasicOptions returns the defaults used by the simple download form.
func BasicOptions(cookiesPath string) Options {
	return Options{
		Mode:        "basic",
		CookiesPath: cookiesPath,
		SaveCover:   true,
		LogLevel:    "INFO",
	}
}

// Args builds the gamdl argument list (after the module prefix) for the
// given URLs.
func (o Options) Args(urls []string) []string {
	var args []string

	if o.CookiesPath != "" {
		args = append(args, "-c", o.CookiesPath)
	}
	if o.OutputPath != "" {
		args = append(args, "-o", o.OutputPath)
	}
	if o.Language != "" {
		args = append(args, "-l", o.Language)
	}
	if o.CoverFormat != "" {
		args = append(args, "--cover-format", o.CoverFormat)
	}
	if o.CodecSong != "" {
		args = append(args, "--codec-song", o.CodecSong)
	}
	if o.QualityPost != "" {
		args = append(args, "--quality-post", o.QualityPost)
	}
	if o.LogLevel != "" {
		args = append(args, "--log-level", o.LogLevel)
	}

	// Reduce exception verbosity, matching the behaviour users expect from
	// the launcher script.
	args = append(args, "--no-exceptions")

	if o.SaveCover {
		args = append(args, "--save-cover")
	}
	if o.SavePlaylist {
		args = append(args, "--save-playlist")
	}
	if o.Overwrite {
		args = append(args, "--overwrite")
	}
	if o.NoSyncedLyrics {
		args = append(args, "--no-synced-lyrics")
	}
	if o.SyncedLyricsOnly {
		args = append(args, "--synced-lyrics-only")
	}
	if o.DisableMusicVideoSkip {
		args = append(args, "--disable-music-video-skip")
	}

	return append(args, urls...)
}
