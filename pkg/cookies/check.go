package cookies

import (
	"context"
	"fmt"
	"net/http"

	"gamdlweb/pkg/applemusic"
)

// Prober is the slice of the Apple Music client used to validate cookies.
type Prober interface {
	Storefront(ctx context.Context) (*applemusic.StorefrontInfo, int, error)
	Search(ctx context.Context, term string) error
}

// Report is the outcome of a cookie validation run.
type Report struct {
	CookiesValid         bool      `json:"cookies_valid"`
	AppleMusicConnected  bool      `json:"apple_music_connected"`
	AuthenticationStatus string    `json:"authentication_status"`
	UserInfo             *UserInfo `json:"user_info,omitempty"`
	TestResults          []string  `json:"test_results"`
	Recommendations      []string  `json:"recommendations"`
	OverallStatus        string    `json:"overall_status"`
}

// UserInfo identifies the storefront the cookies are logged into.
type UserInfo struct {
	Storefront string `json:"storefront"`
	Name       string `json:"name"`
}

// Checker grades a stored cookies file from file-level sanity up to an
// authenticated storefront request and a search probe.
type Checker struct {
	store     *Store
	newProber func(cookies []*http.Cookie) Prober
}

// NewChecker creates a checker. newProber builds an API client from parsed
// cookies; tests substitute a fake.
func NewChecker(store *Store, newProber func(cookies []*http.Cookie) Prober) *Checker {
	return &Checker{store: store, newProber: newProber}
}

func (r *Report) result(format string, args ...any) {
	r.TestResults = append(r.TestResults, fmt.Sprintf(format, args...))
}

func (r *Report) recommend(msg string) {
	r.Recommendations = append(r.Recommendations, msg)
}

// Run executes the validation pipeline and grades the result.
func (c *Checker) Run(ctx context.Context) *Report {
	report := &Report{AuthenticationStatus: "unknown", OverallStatus: "poor"}

	if !c.store.Exists() {
		report.result("No cookies file found")
		report.recommend("Upload a cookies.txt file exported from your browser")
		return report
	}

	parsed, err := c.store.Cookies()
	if err != nil {
		report.result("Error reading cookies file: %v", err)
		report.recommend("Check file permissions and format")
		return report
	}
	if len(parsed) == 0 {
		report.result("Cookies file is empty")
		report.recommend("Export cookies again from your browser")
		return report
	}
	report.result("Cookies file readable (%d cookie entries)", len(parsed))

	apple := AppleCookies(parsed)
	if len(apple) > 0 {
		report.result("Found %d Apple Music cookies", len(apple))
	} else {
		report.result("No Apple Music cookies found")
		report.recommend("Make sure to export cookies from music.apple.com")
	}
	report.CookiesValid = true

	prober := c.newProber(ToHTTP(parsed))

	info, status, err := prober.Storefront(ctx)
	switch {
	case err == nil:
		report.result("Authenticated API request successful")
		report.AppleMusicConnected = true
		report.AuthenticationStatus = "authenticated"
		report.UserInfo = &UserInfo{Storefront: info.ID, Name: info.Name}
		report.result("User storefront: %s (%s)", info.Name, info.ID)
	case status == http.StatusUnauthorized:
		report.result("Authentication failed - cookies may be expired")
		report.AuthenticationStatus = "expired"
		report.recommend("Re-export cookies from your browser while logged into Apple Music")
	case status == http.StatusForbidden:
		report.result("Access forbidden - account may not have Apple Music subscription")
		report.AuthenticationStatus = "no_subscription"
		report.recommend("Ensure you have an active Apple Music subscription")
	case status == 0:
		report.result("Connection error - cannot reach Apple Music servers")
		report.recommend("Check internet connection and DNS settings")
	default:
		report.result("Unexpected response: %d", status)
		report.AuthenticationStatus = "unknown_error"
	}

	if report.AppleMusicConnected {
		if err := prober.Search(ctx, "test"); err == nil {
			report.result("Search API test successful - full functionality available")
		} else {
			report.result("Search test failed - limited functionality: %v", err)
		}
	}

	switch {
	case report.CookiesValid && report.AppleMusicConnected:
		report.OverallStatus = "excellent"
		report.result("All tests passed - ready for downloads")
	case report.CookiesValid:
		report.OverallStatus = "good"
		report.result("Cookies valid but limited connectivity")
	default:
		report.result("Issues detected - downloads may fail")
	}
	return report
}
