package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var Log *slog.Logger

const maxHistory = 500

var (
	// history is a fixed circular buffer so the ring never reallocates.
	history   [maxHistory]string
	histNext  int
	histCount int
	historyMu sync.RWMutex

	broadcastCh chan<- string
)

// SetBroadcast sets a channel that receives every formatted log line.
// Used by the API server to push logs to connected websocket clients.
func SetBroadcast(ch chan<- string) {
	broadcastCh = ch
}

// Init initializes the global logger
func Init(levelStr string) {
	var level slog.Level
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	base := slog.NewTextHandler(os.Stdout, opts)

	Log = slog.New(&broadcastHandler{Handler: base})
	slog.SetDefault(Log)
}

// broadcastHandler wraps the stdout handler, keeps an in-memory history
// ring and forwards formatted lines to the broadcast channel.
type broadcastHandler struct {
	slog.Handler
}

func (h *broadcastHandler) Handle(ctx context.Context, r slog.Record) error {
	msg := fmt.Sprintf("time=%s level=%s msg=%q", r.Time.Format("2006-01-02T15:04:05.000-07:00"), r.Level, r.Message)
	r.Attrs(func(a slog.Attr) bool {
		msg += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	})

	historyMu.Lock()
	history[histNext] = msg
	histNext = (histNext + 1) % maxHistory
	if histCount < maxHistory {
		histCount++
	}
	historyMu.Unlock()

	err := h.Handler.Handle(ctx, r)

	if broadcastCh != nil {
		select {
		case broadcastCh <- msg:
		default:
			// Drop if the channel is full to avoid blocking
		}
	}
	return err
}

// GetHistory returns a copy of the current log history, oldest first.
func GetHistory() []string {
	historyMu.RLock()
	defer historyMu.RUnlock()
	cp := make([]string, 0, histCount)
	start := (histNext - histCount + maxHistory) % maxHistory
	for i := 0; i < histCount; i++ {
		cp = append(cp, history[(start+i)%maxHistory])
	}
	return cp
}

// SetLevel updates the logger level at runtime
func SetLevel(levelStr string) {
	Init(levelStr)
}

// Helper functions for easy access
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
