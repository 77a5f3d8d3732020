package diagnostics

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gamdlweb/pkg/logger"
)

// Performance holds the disk throughput probe result.
type Performance struct {
	WriteSpeedMBps float64 `json:"write_speed_mbps,omitempty"`
	ReadSpeedMBps  float64 `json:"read_speed_mbps,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Network holds the Apple Music reachability probe result.
type Network struct {
	AppleMusicReachable bool    `json:"apple_music_reachable"`
	ResponseTimeMs      float64 `json:"response_time_ms,omitempty"`
}

// Report aggregates all dependency and environment checks.
type Report struct {
	FFmpeg          bool        `json:"ffmpeg"`
	FFmpegPath      string      `json:"ffmpeg_path,omitempty"`
	FFmpegVersion   string      `json:"ffmpeg_version,omitempty"`
	Gamdl           bool        `json:"gamdl"`
	Performance     Performance `json:"performance"`
	Network         Network     `json:"network"`
	Recommendations []string    `json:"recommendations"`
}

// Checker runs environment diagnostics for the download pipeline.
type Checker struct {
	Interpreter string
	ProbeURL    string

	lookPath   func(file string) (string, error)
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewChecker creates a checker probing the given interpreter. An empty
// probeURL selects the real Apple Music API.
func NewChecker(interpreter, probeURL string) *Checker {
	if probeURL == "" {
		probeURL = "https://amp-api.music.apple.com"
	}
	return &Checker{
		Interpreter: interpreter,
		ProbeURL:    probeURL,
		lookPath:    exec.LookPath,
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// Run executes all checks concurrently and collects recommendations.
func (c *Checker) Run(ctx context.Context) *Report {
	report := &Report{}
	var mu sync.Mutex
	recommend := func(msg string) {
		mu.Lock()
		report.Recommendations = append(report.Recommendations, msg)
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		path, err := c.lookPath("ffmpeg")
		if err != nil {
			recommend("Install FFmpeg: brew install ffmpeg (macOS) or apt install ffmpeg (Linux)")
			return nil
		}
		report.FFmpeg = true
		report.FFmpegPath = path
		if out, err := c.runCommand(ctx, "ffmpeg", "-version"); err == nil {
			if lines := strings.SplitN(string(out), "\n", 2); len(lines) > 0 {
				report.FFmpegVersion = strings.TrimSpace(lines[0])
			}
		}
		return nil
	})

	g.Go(func() error {
		if _, err := c.runCommand(ctx, c.Interpreter, "-m", "gamdl", "--help"); err != nil {
			recommend("gamdl is not runnable - reinstall it into the tool environment")
			return nil
		}
		report.Gamdl = true
		return nil
	})

	g.Go(func() error {
		report.Performance = diskProbe()
		if report.Performance.Error == "" &&
			(report.Performance.WriteSpeedMBps < 1 || report.Performance.ReadSpeedMBps < 1) {
			recommend("Slow disk I/O detected - consider using SSD storage")
		}
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, "HEAD", c.ProbeURL, nil)
		if err != nil {
			return nil
		}
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			recommend("Cannot reach Apple Music API - check internet connection")
			return nil
		}
		resp.Body.Close()
		elapsed := time.Since(start)
		report.Network = Network{
			AppleMusicReachable: resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound,
			ResponseTimeMs:      float64(elapsed.Milliseconds()),
		}
		if elapsed > 2*time.Second {
			recommend("Slow network detected - check internet connection")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn("Diagnostics run incomplete", "err", err)
	}
	return report
}

// diskProbe measures rough write/read throughput with a 1 MiB temp file.
func diskProbe() Performance {
	f, err := os.CreateTemp("", "gamdlweb-diskprobe")
	if err != nil {
		return Performance{Error: fmt.Sprintf("could not test disk performance: %v", err)}
	}
	defer os.Remove(f.Name())
	defer f.Close()

	data := make([]byte, 1024*1024)

	start := time.Now()
	if _, err := f.Write(data); err != nil {
		return Performance{Error: fmt.Sprintf("could not test disk performance: %v", err)}
	}
	if err := f.Sync(); err != nil {
		return Performance{Error: fmt.Sprintf("could not test disk performance: %v", err)}
	}
	writeTime := time.Since(start).Seconds()

	start = time.Now()
	if _, err := f.Seek(0, 0); err != nil {
		return Performance{Error: fmt.Sprintf("could not test disk performance: %v", err)}
	}
	buf := make([]byte, len(data))
	if _, err := f.Read(buf); err != nil {
		return Performance{Error: fmt.Sprintf("could not test disk performance: %v", err)}
	}
	readTime := time.Since(start).Seconds()

	p := Performance{}
	if writeTime > 0 {
		p.WriteSpeedMBps = round1(1 / writeTime)
	}
	if readTime > 0 {
		p.ReadSpeedMBps = round1(1 / readTime)
	}
	return p
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
