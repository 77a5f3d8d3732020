package downloader

import (
	"context"
	"fmt"

	"gamdlweb/pkg/applemusic"
	"gamdlweb/pkg/logger"
)

// ArtistResolver resolves an artist page into its related releases.
type ArtistResolver interface {
	Artist(ctx context.Context, id string) (*applemusic.Resource, error)
}

// ExpandArtistURLs replaces artist URLs with the URLs of the artist's
// albums or music videos, depending on downloadType. Expansion failures
// keep the original URL so gamdl can still take a shot at it.
func ExpandArtistURLs(ctx context.Context, resolver ArtistResolver, urls []string, downloadType string) []string {
	var out []string
	for _, u := range urls {
		info := applemusic.ParseURL(u)
		if info.Type != applemusic.TypeArtist || resolver == nil {
			out = append(out, u)
			continue
		}

		artist, err := resolver.Artist(ctx, info.ID)
		if err != nil {
			logger.Warn("Failed to expand artist URL", "url", u, "err", err)
			out = append(out, u)
			continue
		}

		var expanded []string
		switch downloadType {
		case "music-videos":
			for _, mv := range artist.Relationships.MusicVideos.Data {
				expanded = append(expanded, fmt.Sprintf("https://music.apple.com/music-video/%s", mv.ID))
			}
		default: // albums
			for _, album := range artist.Relationships.Albums.Data {
				expanded = append(expanded, fmt.Sprintf("https://music.apple.com/album/%s", album.ID))
			}
		}

		if len(expanded) == 0 {
			out = append(out, u)
			continue
		}
		logger.Info("Expanded artist URL", "url", u, "items", len(expanded), "type", downloadType)
		out = append(out, expanded...)
	}
	return out
}
