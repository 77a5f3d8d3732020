package cookies

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Cookie is one entry of a Netscape-format cookies.txt file.
type Cookie struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	Expires           int64
	Name              string
	Value             string
}

// Parse reads a Netscape cookies.txt stream. Blank lines and comments are
// skipped; the #HttpOnly_ domain prefix browsers emit is stripped.
func Parse(r io.Reader) ([]Cookie, error) {
	var out []Cookie
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		httpOnly := strings.HasPrefix(line, "#HttpOnly_")
		if httpOnly {
			line = strings.TrimPrefix(line, "#HttpOnly_")
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			return nil, fmt.Errorf("line %d: expected 7 tab-separated fields, got %d", lineNo, len(fields))
		}

		expires, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid expiry %q", lineNo, fields[4])
		}

		out = append(out, Cookie{
			Domain:            fields[0],
			IncludeSubdomains: strings.EqualFold(fields[1], "TRUE"),
			Path:              fields[2],
			Secure:            strings.EqualFold(fields[3], "TRUE"),
			Expires:           expires,
			Name:              fields[5],
			Value:             strings.Join(fields[6:], "\t"),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AppleCookies filters entries belonging to apple.com domains.
func AppleCookies(all []Cookie) []Cookie {
	var out []Cookie
	for _, c := range all {
		if strings.Contains(c.Domain, "apple.com") {
			out = append(out, c)
		}
	}
	return out
}

// ToHTTP converts parsed entries into http.Cookie values for API requests.
func ToHTTP(all []Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(all))
	for _, c := range all {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}
