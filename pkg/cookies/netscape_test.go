package cookies

import (
	"strings"
	"testing"
)

const sampleCookies = `# Netscape HTTP Cookie File
# This is a generated file! Do not edit.

.apple.com	TRUE	/	TRUE	1790000000	media-user-token	abc123
#HttpOnly_.apple.com	TRUE	/	TRUE	1790000000	itspod	45
music.apple.com	FALSE	/	TRUE	0	pltvcid	xyz
.example.com	TRUE	/	FALSE	1790000000	other	value
`

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(sampleCookies))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 cookies, got %d", len(got))
	}

	first := got[0]
	if first.Domain != ".apple.com" || first.Name != "media-user-token" || first.Value != "abc123" {
		t.Errorf("first cookie parsed wrong: %+v", first)
	}
	if !first.IncludeSubdomains || !first.Secure {
		t.Errorf("flags parsed wrong: %+v", first)
	}
	if first.Expires != 1790000000 {
		t.Errorf("expiry parsed wrong: %d", first.Expires)
	}

	// The #HttpOnly_ prefix is stripped, not treated as a comment.
	if got[1].Domain != ".apple.com" || got[1].Name != "itspod" {
		t.Errorf("HttpOnly cookie parsed wrong: %+v", got[1])
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse(strings.NewReader("too\tfew\tfields\n")); err == nil {
		t.Error("expected error for short line")
	}
	if _, err := Parse(strings.NewReader(".a.com\tTRUE\t/\tTRUE\tnotanumber\tname\tvalue\n")); err == nil {
		t.Error("expected error for bad expiry")
	}
}

func TestAppleCookies(t *testing.T) {
	all, err := Parse(strings.NewReader(sampleCookies))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	apple := AppleCookies(all)
	if len(apple) != 3 {
		t.Fatalf("expected 3 apple.com cookies, got %d", len(apple))
	}
	for _, c := range apple {
		if !strings.Contains(c.Domain, "apple.com") {
			t.Errorf("non-apple domain passed filter: %s", c.Domain)
		}
	}
}

func TestToHTTP(t *testing.T) {
	out := ToHTTP([]Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}})
	if len(out) != 2 || out[0].Name != "a" || out[1].Value != "2" {
		t.Errorf("conversion wrong: %+v", out)
	}
}
