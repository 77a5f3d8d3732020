package applemusic

import "testing"

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{-500, "0:00"},
		{1000, "0:01"},
		{61000, "1:01"},
		{754000, "12:34"},
		{3600000, "1:00:00"},
		{3723000, "1:02:03"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.ms); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}
