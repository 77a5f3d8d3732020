package downloader

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"gamdlweb/pkg/logger"
	"gamdlweb/pkg/metrics"
)

// Runner executes gamdl for a task and feeds its output back into the
// task's progress state.
type Runner struct {
	// Interpreter is the Python interpreter used to run the gamdl module.
	Interpreter string
	// ModuleArgs is the argument prefix selecting the gamdl module.
	ModuleArgs []string
	// Timeout bounds a single download run.
	Timeout time.Duration
	// Notify, if set, receives a snapshot after every state change.
	Notify func(View)

	// newCommand is swapped out by tests.
	newCommand func(ctx context.Context, t *Task) *exec.Cmd
}

// NewRunner creates a runner invoking interpreter -m gamdl.
func NewRunner(interpreter string, timeout time.Duration) *Runner {
	r := &Runner{
		Interpreter: interpreter,
		ModuleArgs:  []string{"-m", "gamdl"},
		Timeout:     timeout,
	}
	r.newCommand = r.gamdlCommand
	return r
}

func (r *Runner) gamdlCommand(ctx context.Context, t *Task) *exec.Cmd {
	args := append(append([]string{}, r.ModuleArgs...), t.Options.Args(t.URLs)...)
	return exec.CommandContext(ctx, r.Interpreter, args...)
}

// Start launches the download in its own goroutine.
func (r *Runner) Start(t *Task) {
	go r.run(t)
}

func (r *Runner) run(t *Task) {
	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	t.SetStatus(StatusRunning)
	t.SetCurrent("Starting download process...")
	metrics.DownloadStarted()
	start := time.Now()

	cmd := r.newCommand(ctx, t)
	t.Command = strings.Join(cmd.Args, " ")
	r.notify(t)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		t.Finish(StatusError, -1, err.Error())
		metrics.DownloadFinished(string(StatusError), time.Since(start))
		logger.Error("Failed to start download process", "id", t.ID, "err", err)
		r.notify(t)
		return
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close()
		waitErr <- err
	}()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		t.ApplyLine(line)
		r.notify(t)
	}

	err := <-waitErr

	var status Status
	var code int
	var errMsg string
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		status = StatusTimeout
		code = -1
		errMsg = "download timed out after " + r.Timeout.String()
	case err == nil:
		status = StatusCompleted
	default:
		status = StatusFailed
		code = exitCode(err)
		errMsg = err.Error()
	}

	t.Finish(status, code, errMsg)
	metrics.DownloadFinished(string(status), time.Since(start))
	logger.Info("Download finished", "id", t.ID, "status", status, "code", code)
	r.notify(t)
}

func (r *Runner) notify(t *Task) {
	if r.Notify != nil {
		r.Notify(t.Snapshot())
	}
}

func exitCode(err error) int {
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}
