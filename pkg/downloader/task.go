package downloader

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Status is the lifecycle state of a download task.
type Status string

const (
	StatusStarting    Status = "starting"
	StatusRunning     Status = "running"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusError       Status = "error"
	StatusTimeout     Status = "timeout"
)

// Finished reports whether the task reached a terminal state.
func (s Status) Finished() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusError, StatusTimeout:
		return true
	}
	return false
}

// maxOutputLines caps the retained pipeline output per task.
const maxOutputLines = 100

// Task is one gamdl invocation with live progress state. The lifecycle
// status only reaches a terminal state through Finish; the progress status
// mirrors whatever the pipeline output currently indicates and may report
// transient errors while the process keeps running.
type Task struct {
	ID      string
	URLs    []string
	Options Options
	Folder  string
	Command string

	mu              sync.Mutex
	status          Status
	progress        Status
	totalTracks     int
	completedTracks int
	currentTrack    string
	output          []string
	startTime       time.Time
	endTime         time.Time
	returnCode      int
	errMsg          string
}

// NewTask creates a task in the starting state.
func NewTask(id string, urls []string, opts Options, folder string) *Task {
	return &Task{
		ID:           id,
		URLs:         urls,
		Options:      opts,
		Folder:       folder,
		status:       StatusStarting,
		progress:     StatusStarting,
		currentTrack: "Initializing...",
		startTime:    time.Now(),
	}
}

// Progress is the live progress portion of a task snapshot.
type Progress struct {
	TotalTracks     int      `json:"total_tracks"`
	CompletedTracks int      `json:"completed_tracks"`
	CurrentTrack    string   `json:"current_track"`
	Status          Status   `json:"status"`
	OutputLines     []string `json:"output_lines"`
	DownloadFolder  string   `json:"download_folder"`
}

// View is an immutable snapshot of a task, safe to serialize.
type View struct {
	ID         string    `json:"id"`
	URLs       []string  `json:"urls"`
	Status     Status    `json:"status"`
	Command    string    `json:"command,omitempty"`
	Folder     string    `json:"download_folder"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time,omitempty"`
	ReturnCode int       `json:"returncode"`
	Error      string    `json:"error,omitempty"`
	Progress   Progress  `json:"progress"`
}

// Snapshot returns a consistent copy of the task state.
func (t *Task) Snapshot() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.output))
	copy(out, t.output)

	return View{
		ID:         t.ID,
		URLs:       t.URLs,
		Status:     t.status,
		Command:    t.Command,
		Folder:     t.Folder,
		StartTime:  t.startTime,
		EndTime:    t.endTime,
		ReturnCode: t.returnCode,
		Error:      t.errMsg,
		Progress: Progress{
			TotalTracks:     t.totalTracks,
			CompletedTracks: t.completedTracks,
			CurrentTrack:    t.currentTrack,
			Status:          t.progress,
			OutputLines:     out,
			DownloadFolder:  t.Folder,
		},
	}
}

// Status returns the current lifecycle state.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// SetStatus moves the task to a new lifecycle state and resets the progress
// status to match.
func (t *Task) SetStatus(s Status) {
	t.mu.Lock()
	t.status = s
	t.progress = s
	t.mu.Unlock()
}

// SetCurrent updates the current activity line without touching the output log.
func (t *Task) SetCurrent(line string) {
	t.mu.Lock()
	t.currentTrack = line
	t.mu.Unlock()
}

// Finish records the terminal state of the task. This is the only way the
// lifecycle status becomes terminal.
func (t *Task) Finish(status Status, returnCode int, errMsg string) {
	t.mu.Lock()
	t.status = status
	t.progress = status
	t.returnCode = returnCode
	t.errMsg = errMsg
	t.endTime = time.Now()
	t.mu.Unlock()
}

var numberRe = regexp.MustCompile(`\d+`)

// ApplyLine records one line of pipeline output and derives progress from
// it. Only the progress status is touched: output lines mentioning errors
// must not end the task while the process is still running.
func (t *Task) ApplyLine(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.output) >= maxOutputLines {
		t.output = t.output[1:]
	}
	t.output = append(t.output, line)

	lower := strings.ToLower(line)
	switch {
	case strings.Contains(line, "Downloading") && strings.Contains(lower, "track"):
		t.currentTrack = line
		t.progress = StatusDownloading
	case strings.Contains(line, "Downloaded") || strings.Contains(line, "Finished"):
		t.completedTracks++
		t.progress = StatusDownloading
	case strings.Contains(line, "Error") || strings.Contains(line, "Failed"):
		t.progress = StatusError
		t.currentTrack = "Error: " + line
	case strings.Contains(lower, "tracks found"):
		if m := numberRe.FindString(line); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				t.totalTracks = n
			}
		}
	case strings.Contains(line, "Processing"):
		t.currentTrack = line
		t.progress = StatusProcessing
	}
}
