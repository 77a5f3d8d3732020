package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gamdlweb/pkg/api"
	"gamdlweb/pkg/applemusic"
	"gamdlweb/pkg/cookies"
	"gamdlweb/pkg/diagnostics"
	"gamdlweb/pkg/downloader"
	"gamdlweb/pkg/initialization"
	"gamdlweb/pkg/logger"
	"gamdlweb/pkg/web"
)

func main() {
	// Load environment variables for logger and bootstrap
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	// Initialize Logger early so bootstrap can use it
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}
	logger.Init(logLevel)

	logger.Info("Starting GAMDL Web", "version", "v0.1.0")

	// Bootstrap application: tool environment, dependencies, cookies
	// warning and working directories, in strict order.
	comp, err := initialization.Bootstrap()
	if err != nil {
		initialization.WaitForInputAndExit(err)
	}

	cfg := comp.Config
	logger.SetLevel(cfg.LogLevel)

	// Cookie store and validation
	store := cookies.NewStore(comp.Fs, cfg.CookiesPath)
	checker := cookies.NewChecker(store, func(cks []*http.Cookie) cookies.Prober {
		return applemusic.NewClient("", cks)
	})

	// Metadata previewer, seeded with a catalog client when cookies exist
	previewer := applemusic.NewPreviewer(nil, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	if store.Exists() {
		if cks, err := store.HTTPCookies(); err == nil {
			previewer.SetCatalog(applemusic.NewClient("", cks))
		} else {
			logger.Warn("Stored cookies could not be parsed", "err", err)
		}
	}

	// Download orchestration
	manager := downloader.NewManager(time.Duration(cfg.TaskTTLMinutes) * time.Minute)
	runner := downloader.NewRunner(comp.Interpreter, time.Duration(cfg.DownloadTimeoutSeconds)*time.Second)

	// Diagnostics
	diag := diagnostics.NewChecker(comp.Interpreter, "")

	// API server
	apiServer := api.NewServer(cfg, comp.Fs, previewer, manager, runner, store, checker, diag)

	// Setup HTTP routes: API before the embedded frontend catch-all.
	mux := http.NewServeMux()
	router := apiServer.Router()
	mux.Handle("/api/", router)
	mux.Handle("/metrics", router)
	mux.Handle("/", web.Handler())

	addr := fmt.Sprintf(":%d", cfg.Port)

	logger.Info("Web interface available", "local", fmt.Sprintf("http://127.0.0.1:%d", cfg.Port))
	if ip := diagnostics.OutboundIP(); ip != "localhost" {
		logger.Info("Web interface available", "network", fmt.Sprintf("http://%s:%d", ip, cfg.Port))
	}

	if err := http.ListenAndServe(addr, mux); err != nil {
		initialization.WaitForInputAndExit(fmt.Errorf("server failed: %v", err))
	}
}
