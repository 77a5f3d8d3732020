package diagnostics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"gamdlweb/pkg/logger"
)

func stubChecker(t *testing.T, ffmpegFound, gamdlRuns bool) *Checker {
	t.Helper()
	logger.Init("DEBUG")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	c := NewChecker("python3", server.URL)
	c.lookPath = func(file string) (string, error) {
		if ffmpegFound {
			return "/usr/bin/" + file, nil
		}
		return "", errors.New("not found")
	}
	c.runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name == "ffmpeg" {
			return []byte("ffmpeg version 6.1\nbuilt with gcc"), nil
		}
		if !gamdlRuns {
			return nil, errors.New("No module named gamdl")
		}
		return []byte("Usage: gamdl [OPTIONS] URLS..."), nil
	}
	return c
}

func TestCheckerAllGood(t *testing.T) {
	report := stubChecker(t, true, true).Run(context.Background())

	if !report.FFmpeg || report.FFmpegPath != "/usr/bin/ffmpeg" {
		t.Errorf("ffmpeg check wrong: %+v", report)
	}
	if report.FFmpegVersion != "ffmpeg version 6.1" {
		t.Errorf("version not captured: %q", report.FFmpegVersion)
	}
	if !report.Gamdl {
		t.Error("gamdl probe should pass")
	}
	if !report.Network.AppleMusicReachable {
		t.Error("404 from the API host still counts as reachable")
	}
	for _, r := range report.Recommendations {
		if strings.Contains(r, "FFmpeg") || strings.Contains(r, "gamdl") {
			t.Errorf("unexpected recommendation: %s", r)
		}
	}
}

func TestCheckerMissingTools(t *testing.T) {
	report := stubChecker(t, false, false).Run(context.Background())

	if report.FFmpeg || report.Gamdl {
		t.Errorf("expected failing tool checks: %+v", report)
	}

	var ffmpegHint, gamdlHint bool
	for _, r := range report.Recommendations {
		if strings.Contains(r, "Install FFmpeg") {
			ffmpegHint = true
		}
		if strings.Contains(r, "gamdl") {
			gamdlHint = true
		}
	}
	if !ffmpegHint || !gamdlHint {
		t.Errorf("expected install recommendations, got %v", report.Recommendations)
	}
}

func TestCheckerUnreachableAPI(t *testing.T) {
	c := stubChecker(t, true, true)
	// Reserved TEST-NET-1 address, nothing listens there.
	c.ProbeURL = "http://192.0.2.1:9"

	report := c.Run(context.Background())
	if report.Network.AppleMusicReachable {
		t.Error("expected unreachable network")
	}
	found := false
	for _, r := range report.Recommendations {
		if strings.Contains(r, "Cannot reach Apple Music API") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected connectivity recommendation, got %v", report.Recommendations)
	}
}

func TestCollectSystemInfo(t *testing.T) {
	info := CollectSystemInfo("downloads")

	if info.Platform != runtime.GOOS {
		t.Errorf("expected platform %s, got %s", runtime.GOOS, info.Platform)
	}
	if len(info.SuggestedPaths) != 4 {
		t.Errorf("expected 4 suggested paths, got %d", len(info.SuggestedPaths))
	}
	if info.DownloadsFolder == "downloads" {
		t.Errorf("expected absolute downloads folder, got %q", info.DownloadsFolder)
	}
}
