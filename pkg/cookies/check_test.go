package cookies

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"gamdlweb/pkg/applemusic"
)

type fakeProber struct {
	info      *applemusic.StorefrontInfo
	status    int
	err       error
	searchErr error
	cookies   int
}

func (f *fakeProber) Storefront(ctx context.Context) (*applemusic.StorefrontInfo, int, error) {
	return f.info, f.status, f.err
}

func (f *fakeProber) Search(ctx context.Context, term string) error {
	return f.searchErr
}

func checkerWith(t *testing.T, content string, prober *fakeProber) *Checker {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/data/cookies.txt")
	if content != "" {
		if _, err := store.Save(strings.NewReader(content)); err != nil {
			t.Fatalf("seed cookies: %v", err)
		}
	}
	return NewChecker(store, func(cookies []*http.Cookie) Prober {
		prober.cookies = len(cookies)
		return prober
	})
}

func TestCheckerMissingFile(t *testing.T) {
	c := checkerWith(t, "", &fakeProber{})
	report := c.Run(context.Background())

	if report.CookiesValid {
		t.Error("missing file must not be valid")
	}
	if report.OverallStatus != "poor" {
		t.Errorf("expected poor status, got %s", report.OverallStatus)
	}
	if len(report.Recommendations) == 0 {
		t.Error("expected an upload recommendation")
	}
}

func TestCheckerAuthenticated(t *testing.T) {
	prober := &fakeProber{
		info:   &applemusic.StorefrontInfo{ID: "us", Name: "United States"},
		status: http.StatusOK,
	}
	c := checkerWith(t, sampleCookies, prober)
	report := c.Run(context.Background())

	if !report.CookiesValid || !report.AppleMusicConnected {
		t.Errorf("expected valid + connected, got %+v", report)
	}
	if report.AuthenticationStatus != "authenticated" {
		t.Errorf("expected authenticated, got %s", report.AuthenticationStatus)
	}
	if report.UserInfo == nil || report.UserInfo.Storefront != "us" {
		t.Errorf("expected storefront info, got %+v", report.UserInfo)
	}
	if report.OverallStatus != "excellent" {
		t.Errorf("expected excellent, got %s", report.OverallStatus)
	}
	if prober.cookies != 4 {
		t.Errorf("expected all parsed cookies passed to prober, got %d", prober.cookies)
	}
}

func TestCheckerExpiredCookies(t *testing.T) {
	prober := &fakeProber{status: http.StatusUnauthorized, err: errors.New("storefront returned status 401")}
	c := checkerWith(t, sampleCookies, prober)
	report := c.Run(context.Background())

	if report.AuthenticationStatus != "expired" {
		t.Errorf("expected expired, got %s", report.AuthenticationStatus)
	}
	if report.AppleMusicConnected {
		t.Error("expired cookies must not count as connected")
	}
	if report.OverallStatus != "good" {
		t.Errorf("valid file with failed auth should grade good, got %s", report.OverallStatus)
	}
}

func TestCheckerNoSubscription(t *testing.T) {
	prober := &fakeProber{status: http.StatusForbidden, err: errors.New("storefront returned status 403")}
	c := checkerWith(t, sampleCookies, prober)
	report := c.Run(context.Background())

	if report.AuthenticationStatus != "no_subscription" {
		t.Errorf("expected no_subscription, got %s", report.AuthenticationStatus)
	}
}

func TestCheckerConnectionError(t *testing.T) {
	prober := &fakeProber{status: 0, err: errors.New("dial tcp: no route to host")}
	c := checkerWith(t, sampleCookies, prober)
	report := c.Run(context.Background())

	if report.AuthenticationStatus != "unknown" {
		t.Errorf("connection errors should leave auth status unknown, got %s", report.AuthenticationStatus)
	}
	if len(report.Recommendations) == 0 {
		t.Error("expected a connectivity recommendation")
	}
}
