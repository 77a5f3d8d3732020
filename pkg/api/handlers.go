package api

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gamdlweb/pkg/applemusic"
	"gamdlweb/pkg/diagnostics"
	"gamdlweb/pkg/downloader"
	"gamdlweb/pkg/logger"
)

type previewRequest struct {
	URLs string `json:"urls"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	urls := applemusic.SplitURLs(req.URLs)
	if len(urls) == 0 {
		writeError(w, http.StatusBadRequest, "No URLs provided")
		return
	}

	metadata := s.previewer.Preview(r.Context(), urls)

	writeJSON(w, http.StatusOK, map[string]any{
		"metadata":               metadata,
		"total_estimated_tracks": applemusic.EstimatedTotal(metadata),
		"has_artists":            applemusic.HasArtists(metadata),
	})
}

type downloadRequest struct {
	URLs               string `json:"urls"`
	Mode               string `json:"mode"`
	OutputPath         string `json:"output_path"`
	ArtistDownloadType string `json:"artist_download_type"`
	downloader.Options
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	urls := applemusic.SplitURLs(req.URLs)
	if len(urls) == 0 {
		writeError(w, http.StatusBadRequest, "No URLs provided")
		return
	}

	hasArtists := false
	for _, u := range urls {
		if applemusic.ParseURL(u).Type == applemusic.TypeArtist {
			hasArtists = true
			break
		}
	}
	if hasArtists && req.ArtistDownloadType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":                   "Artist URLs detected. Please specify what to download from artists.",
			"requires_artist_options": true,
			"artist_options":          []string{"albums", "music-videos"},
		})
		return
	}

	downloadID := uuid.NewString()

	cookiesPath := req.CookiesPath
	if cookiesPath == "" && s.store.Exists() {
		cookiesPath = s.store.Path()
	}

	metadata := s.previewer.Preview(r.Context(), urls)

	var opts downloader.Options
	if req.Mode == "" || req.Mode == "basic" {
		opts = downloader.BasicOptions(cookiesPath)
	} else {
		opts = req.Options
		opts.Mode = req.Mode
		opts.CookiesPath = cookiesPath
		if opts.LogLevel == "" {
			opts.LogLevel = "INFO"
		}
	}
	opts.ArtistDownloadType = req.ArtistDownloadType

	baseOutput := req.OutputPath
	if baseOutput == "" {
		baseOutput = s.cfg.DownloadsDir
	}

	folder, err := downloader.CreateFolder(s.fs, baseOutput, metadata, downloadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	opts.OutputPath = folder

	expanded := downloader.ExpandArtistURLs(r.Context(), s.resolver(), urls, req.ArtistDownloadType)

	task := downloader.NewTask(downloadID, expanded, opts, folder)
	s.manager.Add(task)
	s.runner.Start(task)

	logger.Info("Download started", "id", downloadID, "urls", len(expanded), "folder", folder)

	writeJSON(w, http.StatusOK, map[string]any{
		"download_id":     downloadID,
		"status":          "started",
		"message":         "Download started successfully",
		"download_folder": folder,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, ok := s.manager.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Download ID not found")
		return
	}

	view := task.Snapshot()
	status := "running"
	if view.Status.Finished() {
		status = "completed"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          status,
		"details":         view,
		"progress":        view.Progress,
		"download_folder": view.Folder,
	})
}

func (s *Server) handleDownloads(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"downloads": s.manager.Views(),
	})
}

func (s *Server) handleCookiesUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(int64(s.cfg.MaxUploadMB) << 20); err != nil {
		writeError(w, http.StatusBadRequest, "No cookies file provided")
		return
	}

	file, header, err := r.FormFile("cookies_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No cookies file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	size, err := s.store.Save(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save cookies file")
		return
	}

	// Fresh cookies invalidate cached previews and the catalog session.
	s.previewer.SetCatalog(s.catalog())

	logger.Info("Cookies file uploaded", "path", s.store.Path(), "size", size)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Cookies file uploaded and saved as cookies.txt",
		"filepath": s.store.Path(),
	})
}

func (s *Server) handleCookiesStatus(w http.ResponseWriter, r *http.Request) {
	cwd, _ := os.Getwd()
	status := s.store.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"current_directory": cwd,
		"cookies_path":      status.Path,
		"cookies_exists":    status.Exists,
		"cookies_size":      status.Size,
		"cookies_readable":  status.Readable,
		"cookies_lines":     status.Lines,
	})
}

func (s *Server) handleCookiesTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.checker.Run(r.Context()))
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, diagnostics.CollectSystemInfo(s.cfg.DownloadsDir))
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.diag.Run(r.Context()))
}
