package applemusic

import (
	"regexp"
	"strings"
)

// ContentType classifies what an Apple Music URL points at.
type ContentType string

const (
	TypeSong     ContentType = "song"
	TypeAlbum    ContentType = "album"
	TypePlaylist ContentType = "playlist"
	TypeArtist   ContentType = "artist"
	TypeUnknown  ContentType = "unknown"
	TypeError    ContentType = "error"
)

// URLInfo holds the result of parsing an Apple Music URL.
type URLInfo struct {
	URL             string      `json:"url"`
	Type            ContentType `json:"type"`
	Title           string      `json:"title"`
	ID              string      `json:"id"`
	EstimatedTracks string      `json:"estimated_tracks"`
}

var (
	// Song must be matched before album: song URLs are album URLs with an
	// ?i= track selector appended.
	songRe     = regexp.MustCompile(`music\.apple\.com/[^/]+/album/[^/]+/(\d+)\?i=(\d+)`)
	albumRe    = regexp.MustCompile(`music\.apple\.com/[^/]+/album/([^/]+)/(\d+)`)
	playlistRe = regexp.MustCompile(`music\.apple\.com/[^/]+/playlist/([^/]+)/pl\.([^/?]+)`)
	artistRe   = regexp.MustCompile(`music\.apple\.com/[^/]+/artist/([^/]+)/(\d+)`)
)

// trackEstimates maps content types to rough track count hints shown in previews.
var trackEstimates = map[ContentType]string{
	TypeSong:     "1",
	TypeAlbum:    "5-15",
	TypePlaylist: "10-100",
	TypeArtist:   "20-200",
	TypeUnknown:  "1+",
}

// EstimateTracks returns a rough track count hint for the content type.
func EstimateTracks(t ContentType) string {
	if e, ok := trackEstimates[t]; ok {
		return e
	}
	return "1+"
}

// ParseURL extracts basic info from an Apple Music URL without touching the
// network. Unrecognized URLs come back as TypeUnknown, never as an error.
func ParseURL(url string) URLInfo {
	if m := songRe.FindStringSubmatch(url); m != nil {
		return URLInfo{
			URL:             url,
			Type:            TypeSong,
			Title:           "Unknown",
			ID:              m[2],
			EstimatedTracks: EstimateTracks(TypeSong),
		}
	}
	if m := albumRe.FindStringSubmatch(url); m != nil {
		return URLInfo{
			URL:             url,
			Type:            TypeAlbum,
			Title:           titleize(m[1]),
			ID:              m[2],
			EstimatedTracks: EstimateTracks(TypeAlbum),
		}
	}
	if m := playlistRe.FindStringSubmatch(url); m != nil {
		return URLInfo{
			URL:             url,
			Type:            TypePlaylist,
			Title:           titleize(m[1]),
			ID:              "pl." + m[2],
			EstimatedTracks: EstimateTracks(TypePlaylist),
		}
	}
	if m := artistRe.FindStringSubmatch(url); m != nil {
		return URLInfo{
			URL:             url,
			Type:            TypeArtist,
			Title:           titleize(m[1]),
			ID:              m[2],
			EstimatedTracks: EstimateTracks(TypeArtist),
		}
	}
	return URLInfo{
		URL:             url,
		Type:            TypeUnknown,
		Title:           "Unknown Content",
		ID:              "unknown",
		EstimatedTracks: EstimateTracks(TypeUnknown),
	}
}

// SplitURLs splits newline-separated URL input into trimmed, non-empty lines.
func SplitURLs(input string) []string {
	var urls []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls
}

// titleize turns a URL slug like "dark-side-of-the-moon" into "Dark Side Of The Moon".
func titleize(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
