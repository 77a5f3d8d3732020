package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"

	"gamdlweb/pkg/applemusic"
	"gamdlweb/pkg/config"
	"gamdlweb/pkg/cookies"
	"gamdlweb/pkg/diagnostics"
	"gamdlweb/pkg/downloader"
	"gamdlweb/pkg/logger"
)

// Server handles the JSON API driving the download pipeline.
type Server struct {
	cfg       *config.Config
	fs        afero.Fs
	previewer *applemusic.Previewer
	manager   *downloader.Manager
	runner    *downloader.Runner
	store     *cookies.Store
	checker   *cookies.Checker
	diag      *diagnostics.Checker

	// catalogBase is overridden in tests to point at a mock API.
	catalogBase string

	// WebSocket client registry
	clients   map[*Client]bool
	clientsMu sync.Mutex
	logCh     chan string
}

// NewServer creates a new API server and wires it into the logger broadcast
// and the runner's progress notifications.
func NewServer(cfg *config.Config, fs afero.Fs, previewer *applemusic.Previewer,
	manager *downloader.Manager, runner *downloader.Runner,
	store *cookies.Store, checker *cookies.Checker, diag *diagnostics.Checker) *Server {

	s := &Server{
		cfg:       cfg,
		fs:        fs,
		previewer: previewer,
		manager:   manager,
		runner:    runner,
		store:     store,
		checker:   checker,
		diag:      diag,
		clients:   make(map[*Client]bool),
		logCh:     make(chan string, 100),
	}

	if runner != nil {
		runner.Notify = s.BroadcastProgress
	}

	logger.SetBroadcast(s.logCh)
	go s.broadcastLogs()

	return s
}

// catalog builds an Apple Music client from the stored cookies, or nil when
// no cookies are available.
func (s *Server) catalog() *applemusic.Client {
	if s.store == nil || !s.store.Exists() {
		return nil
	}
	cks, err := s.store.HTTPCookies()
	if err != nil {
		logger.Warn("Failed to parse stored cookies", "err", err)
		return nil
	}
	return applemusic.NewClient(s.catalogBase, cks)
}

// resolver adapts the catalog for artist URL expansion, avoiding a typed
// nil inside the interface.
func (s *Server) resolver() downloader.ArtistResolver {
	if c := s.catalog(); c != nil {
		return c
	}
	return nil
}

// Router returns the HTTP handler for the API.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/preview", s.handlePreview).Methods(http.MethodPost)
	r.HandleFunc("/api/download", s.handleDownload).Methods(http.MethodPost)
	r.HandleFunc("/api/status/{id}", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/downloads", s.handleDownloads).Methods(http.MethodGet)
	r.HandleFunc("/api/cookies", s.handleCookiesUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/cookies/status", s.handleCookiesStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/cookies/test", s.handleCookiesTest).Methods(http.MethodPost)
	r.HandleFunc("/api/system", s.handleSystemInfo).Methods(http.MethodGet)
	r.HandleFunc("/api/diagnostics", s.handleDiagnostics).Methods(http.MethodGet)
	r.HandleFunc("/api/ws", s.handleWebSocket)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
