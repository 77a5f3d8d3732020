package applemusic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Apple Music catalog API endpoint.
const DefaultBaseURL = "https://amp-api.music.apple.com"

// Client talks to the Apple Music catalog API using browser session cookies.
type Client struct {
	baseURL    string
	storefront string
	cookies    []*http.Cookie
	client     *http.Client
}

// NewClient creates a catalog client. An empty baseURL selects the real API.
func NewClient(baseURL string, cookies []*http.Cookie) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		storefront: "us",
		cookies:    cookies,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetStorefront switches the storefront used for catalog lookups.
func (c *Client) SetStorefront(id string) {
	if id != "" {
		c.storefront = id
	}
}

// Resource is a catalog object (album, playlist, song, artist or track).
type Resource struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Attributes    Attributes
	Relationships Relationships
}

// Attributes holds the catalog fields the UI cares about.
type Attributes struct {
	Name             string   `json:"name"`
	ArtistName       string   `json:"artistName"`
	AlbumName        string   `json:"albumName"`
	CuratorName      string   `json:"curatorName"`
	ReleaseDate      string   `json:"releaseDate"`
	GenreNames       []string `json:"genreNames"`
	DurationInMillis int64    `json:"durationInMillis"`
	TrackNumber      int      `json:"trackNumber"`
	Description      struct {
		Standard string `json:"standard"`
	} `json:"description"`
}

// Relationships holds the related collections the UI cares about.
type Relationships struct {
	Tracks      ResourceList `json:"tracks"`
	Albums      ResourceList `json:"albums"`
	MusicVideos ResourceList `json:"music-videos"`
}

// ResourceList wraps the data array of a relationship.
type ResourceList struct {
	Data []Resource `json:"data"`
}

type apiResponse struct {
	Data []Resource `json:"data"`
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Origin", "https://music.apple.com")
	req.Header.Set("accept", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	return c.client.Do(req)
}

func (c *Client) getResource(ctx context.Context, kind, id string, params url.Values) (*Resource, error) {
	endpoint := fmt.Sprintf("%s/v1/catalog/%s/%s/%s", c.baseURL, c.storefront, kind, id)
	resp, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog %s/%s returned status %d", kind, id, resp.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("catalog %s/%s returned no data", kind, id)
	}
	return &out.Data[0], nil
}

// Album fetches an album with its track listing.
func (c *Client) Album(ctx context.Context, id string) (*Resource, error) {
	return c.getResource(ctx, "albums", id, nil)
}

// Playlist fetches a playlist with its track listing.
func (c *Client) Playlist(ctx context.Context, id string) (*Resource, error) {
	return c.getResource(ctx, "playlists", id, nil)
}

// Song fetches a single song.
func (c *Client) Song(ctx context.Context, id string) (*Resource, error) {
	return c.getResource(ctx, "songs", id, nil)
}

// Artist fetches an artist including album and music video relationships,
// used to expand artist URLs into individual downloads.
func (c *Client) Artist(ctx context.Context, id string) (*Resource, error) {
	params := url.Values{}
	params.Set("include", "albums,music-videos")
	return c.getResource(ctx, "artists", id, params)
}

// StorefrontInfo describes the account storefront, used to verify cookies.
type StorefrontInfo struct {
	ID   string
	Name string
}

// Storefront performs an authenticated storefront lookup. The HTTP status is
// returned alongside the result so callers can distinguish expired cookies
// (401) from a missing subscription (403).
func (c *Client) Storefront(ctx context.Context) (*StorefrontInfo, int, error) {
	endpoint := fmt.Sprintf("%s/v1/me/storefront", c.baseURL)
	resp, err := c.doRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("storefront request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("storefront returned status %d", resp.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode storefront response: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, resp.StatusCode, fmt.Errorf("storefront returned no data")
	}

	info := &StorefrontInfo{ID: out.Data[0].ID, Name: out.Data[0].Attributes.Name}
	return info, resp.StatusCode, nil
}

// Search runs a one-result song search, used as a functional probe during
// cookie validation.
func (c *Client) Search(ctx context.Context, term string) error {
	endpoint := fmt.Sprintf("%s/v1/catalog/%s/search", c.baseURL, c.storefront)
	params := url.Values{}
	params.Set("term", term)
	params.Set("types", "songs")
	params.Set("limit", "1")

	resp, err := c.doRequest(ctx, endpoint, params)
	if err != nil {
		return fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search returned status %d", resp.StatusCode)
	}
	return nil
}
