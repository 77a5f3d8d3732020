package applemusic

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"gamdlweb/pkg/logger"
)

// maxPreviewTracks caps the track listing returned for albums and playlists.
const maxPreviewTracks = 15

// Track is a single entry in a preview track listing.
type Track struct {
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
	Duration    string `json:"duration"`
	TrackNumber int    `json:"track_number,omitempty"`
}

// Metadata is the preview shown to the user before a download starts.
type Metadata struct {
	URL             string      `json:"url"`
	Type            ContentType `json:"type"`
	Title           string      `json:"title"`
	Artist          string      `json:"artist,omitempty"`
	Album           string      `json:"album,omitempty"`
	Curator         string      `json:"curator,omitempty"`
	ID              string      `json:"id"`
	EstimatedTracks string      `json:"estimated_tracks"`
	ActualTracks    int         `json:"actual_tracks,omitempty"`
	ReleaseDate     string      `json:"release_date,omitempty"`
	Genre           string      `json:"genre,omitempty"`
	Description     string      `json:"description,omitempty"`
	Duration        string      `json:"duration,omitempty"`
	TotalDuration   string      `json:"total_duration,omitempty"`
	Tracks          []Track     `json:"tracks,omitempty"`
	HasMoreTracks   bool        `json:"has_more_tracks,omitempty"`
	TrackNumber     int         `json:"track_number,omitempty"`
	Note            string      `json:"note,omitempty"`
}

// Catalog is the subset of the API client the previewer needs.
type Catalog interface {
	Album(ctx context.Context, id string) (*Resource, error)
	Playlist(ctx context.Context, id string) (*Resource, error)
	Song(ctx context.Context, id string) (*Resource, error)
	Artist(ctx context.Context, id string) (*Resource, error)
}

// Previewer resolves Apple Music URLs into preview metadata, caching
// catalog lookups so repeated previews of the same URL stay cheap.
type Previewer struct {
	catalog Catalog
	cache   *expirable.LRU[string, Metadata]
}

// NewPreviewer creates a previewer. catalog may be nil, in which case only
// URL parsing is performed.
func NewPreviewer(catalog Catalog, cacheTTL time.Duration) *Previewer {
	return &Previewer{
		catalog: catalog,
		cache:   expirable.NewLRU[string, Metadata](256, nil, cacheTTL),
	}
}

// SetCatalog swaps the catalog client, e.g. after a cookie upload.
func (p *Previewer) SetCatalog(catalog Catalog) {
	p.catalog = catalog
	p.cache.Purge()
}

// Preview resolves each URL into metadata. Catalog failures degrade to the
// parsed URL info rather than failing the whole preview.
func (p *Previewer) Preview(ctx context.Context, urls []string) []Metadata {
	results := make([]Metadata, 0, len(urls))
	for _, u := range urls {
		if cached, ok := p.cache.Get(u); ok {
			results = append(results, cached)
			continue
		}

		info := ParseURL(u)
		md := basicMetadata(info)

		if p.catalog != nil && info.Type != TypeUnknown && info.Type != TypeError {
			if real, err := p.lookup(ctx, info); err != nil {
				logger.Debug("Catalog lookup failed, using parsed URL info", "url", u, "err", err)
			} else {
				md = *real
			}
		}

		p.cache.Add(u, md)
		results = append(results, md)
	}
	return results
}

// HasArtists reports whether any entry is an artist page.
func HasArtists(metadata []Metadata) bool {
	for _, m := range metadata {
		if m.Type == TypeArtist {
			return true
		}
	}
	return false
}

// EstimatedTotal sums track counts across previews, counting one track for
// entries without an exact number.
func EstimatedTotal(metadata []Metadata) int {
	total := 0
	for _, m := range metadata {
		if m.ActualTracks > 0 {
			total += m.ActualTracks
		} else {
			total++
		}
	}
	return total
}

func basicMetadata(info URLInfo) Metadata {
	return Metadata{
		URL:             info.URL,
		Type:            info.Type,
		Title:           info.Title,
		ID:              info.ID,
		EstimatedTracks: info.EstimatedTracks,
	}
}

func (p *Previewer) lookup(ctx context.Context, info URLInfo) (*Metadata, error) {
	switch info.Type {
	case TypeAlbum:
		res, err := p.catalog.Album(ctx, info.ID)
		if err != nil {
			return nil, err
		}
		md := collectionMetadata(info, res)
		md.Artist = res.Attributes.ArtistName
		md.ReleaseDate = res.Attributes.ReleaseDate
		md.Genre = strings.Join(res.Attributes.GenreNames, ", ")
		return md, nil

	case TypePlaylist:
		res, err := p.catalog.Playlist(ctx, info.ID)
		if err != nil {
			return nil, err
		}
		md := collectionMetadata(info, res)
		md.Curator = res.Attributes.CuratorName
		md.Description = res.Attributes.Description.Standard
		return md, nil

	case TypeSong:
		res, err := p.catalog.Song(ctx, info.ID)
		if err != nil {
			return nil, err
		}
		return &Metadata{
			URL:             info.URL,
			Type:            TypeSong,
			Title:           res.Attributes.Name,
			Artist:          res.Attributes.ArtistName,
			Album:           res.Attributes.AlbumName,
			ID:              info.ID,
			EstimatedTracks: "1",
			ActualTracks:    1,
			Duration:        FormatDuration(res.Attributes.DurationInMillis),
			Genre:           strings.Join(res.Attributes.GenreNames, ", "),
			ReleaseDate:     res.Attributes.ReleaseDate,
			TrackNumber:     res.Attributes.TrackNumber,
		}, nil

	case TypeArtist:
		res, err := p.catalog.Artist(ctx, info.ID)
		if err != nil {
			return nil, err
		}
		return &Metadata{
			URL:             info.URL,
			Type:            TypeArtist,
			Title:           res.Attributes.Name,
			ID:              info.ID,
			EstimatedTracks: EstimateTracks(TypeArtist),
			Genre:           strings.Join(res.Attributes.GenreNames, ", "),
			Note:            "Artist pages may contain multiple albums and singles",
		}, nil
	}
	return nil, nil
}

func collectionMetadata(info URLInfo, res *Resource) *Metadata {
	tracks := res.Relationships.Tracks.Data

	md := &Metadata{
		URL:             info.URL,
		Type:            info.Type,
		Title:           res.Attributes.Name,
		ID:              info.ID,
		EstimatedTracks: info.EstimatedTracks,
		ActualTracks:    len(tracks),
		HasMoreTracks:   len(tracks) > maxPreviewTracks,
	}

	var totalMs int64
	for _, t := range tracks {
		totalMs += t.Attributes.DurationInMillis
	}
	md.TotalDuration = FormatDuration(totalMs)

	shown := tracks
	if len(shown) > maxPreviewTracks {
		shown = shown[:maxPreviewTracks]
	}
	for _, t := range shown {
		md.Tracks = append(md.Tracks, Track{
			Name:        t.Attributes.Name,
			Artist:      t.Attributes.ArtistName,
			Album:       t.Attributes.AlbumName,
			Duration:    FormatDuration(t.Attributes.DurationInMillis),
			TrackNumber: t.Attributes.TrackNumber,
		})
	}
	return md
}
