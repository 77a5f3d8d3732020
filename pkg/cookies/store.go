package cookies

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/afero"
)

// Store manages the cookies.txt file in the data directory.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store backed by the given filesystem. Tests pass an
// afero.MemMapFs.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the on-disk location of the cookies file.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the cookies file is present.
func (s *Store) Exists() bool {
	ok, _ := afero.Exists(s.fs, s.path)
	return ok
}

// Save writes an uploaded cookies file, replacing any existing one. The
// upload is rejected if it is empty.
func (s *Store) Save(r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return 0, fmt.Errorf("failed to read upload: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("uploaded cookies file is empty")
	}
	if err := afero.WriteFile(s.fs, s.path, buf.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("failed to save cookies file: %w", err)
	}
	return n, nil
}

// Status describes the current state of the cookies file.
type Status struct {
	Path     string `json:"cookies_path"`
	Exists   bool   `json:"cookies_exists"`
	Size     int64  `json:"cookies_size"`
	Readable bool   `json:"cookies_readable"`
	Lines    int    `json:"cookies_lines"`
}

// Status reports existence, size and line count of the cookies file.
func (s *Store) Status() Status {
	st := Status{Path: s.path}

	info, err := s.fs.Stat(s.path)
	if err != nil {
		return st
	}
	st.Exists = true
	st.Size = info.Size()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return st
	}
	content := strings.TrimSpace(string(data))
	st.Readable = len(content) > 0
	if content != "" {
		st.Lines = len(strings.Split(content, "\n"))
	}
	return st
}

// Cookies parses the stored file.
func (s *Store) Cookies() ([]Cookie, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// HTTPCookies parses the stored file into http.Cookie values.
func (s *Store) HTTPCookies() ([]*http.Cookie, error) {
	all, err := s.Cookies()
	if err != nil {
		return nil, err
	}
	return ToHTTP(all), nil
}
