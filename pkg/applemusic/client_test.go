package applemusic

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientAlbum(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/catalog/us/albums/123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Origin") != "https://music.apple.com" {
			t.Errorf("missing Origin header")
		}
		if ck, err := r.Cookie("media-user-token"); err != nil || ck.Value != "tok" {
			t.Errorf("expected session cookie on request")
		}
		fmt.Fprint(w, `{"data":[{"id":"123","type":"albums","attributes":{"name":"Test Album","artistName":"Test Artist"},"relationships":{"tracks":{"data":[{"attributes":{"name":"One","durationInMillis":61000}}]}}}]}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, []*http.Cookie{{Name: "media-user-token", Value: "tok"}})
	res, err := c.Album(context.Background(), "123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attributes.Name != "Test Album" {
		t.Errorf("expected album name, got %q", res.Attributes.Name)
	}
	if len(res.Relationships.Tracks.Data) != 1 {
		t.Fatalf("expected 1 track, got %d", len(res.Relationships.Tracks.Data))
	}
	if res.Relationships.Tracks.Data[0].Attributes.DurationInMillis != 61000 {
		t.Errorf("track duration not decoded")
	}
}

func TestClientStorefrontStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		wantID string
	}{
		{"authenticated", http.StatusOK, `{"data":[{"id":"us","attributes":{"name":"United States"}}]}`, "us"},
		{"expired", http.StatusUnauthorized, `{}`, ""},
		{"no subscription", http.StatusForbidden, `{}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			c := NewClient(server.URL, nil)
			info, status, err := c.Storefront(context.Background())
			if status != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, status)
			}
			if tc.wantID == "" {
				if err == nil {
					t.Error("expected error for non-200 status")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.ID != tc.wantID {
				t.Errorf("expected storefront %q, got %q", tc.wantID, info.ID)
			}
		})
	}
}

func TestClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("term") == "" {
			t.Error("expected search term")
		}
		fmt.Fprint(w, `{"results":{}}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, nil)
	if err := c.Search(context.Background(), "test"); err != nil {
		t.Errorf("unexpected search error: %v", err)
	}
}
