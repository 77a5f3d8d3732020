package downloader

import (
	"sort"
	"sync"
	"time"

	"gamdlweb/pkg/logger"
)

// Manager tracks active and finished download tasks. Finished tasks are
// kept for the configured TTL so the UI can show recent history.
type Manager struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	ttl   time.Duration
}

// NewManager creates a manager and starts its cleanup loop.
func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		tasks: make(map[string]*Task),
		ttl:   ttl,
	}
	go m.cleanupLoop()
	return m
}

// Add registers a task.
func (m *Manager) Add(t *Task) {
	m.mu.Lock()
	m.tasks[t.ID] = t
	m.mu.Unlock()
}

// Get retrieves a task by ID.
func (m *Manager) Get(id string) (*Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	return t, ok
}

// Views returns snapshots of all tasks, newest first.
func (m *Manager) Views() []View {
	m.mu.RLock()
	tasks := make([]*Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, t)
	}
	m.mu.RUnlock()

	views := make([]View, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, t.Snapshot())
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].StartTime.After(views[j].StartTime)
	})
	return views
}

// ActiveCount returns the number of tasks still running.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.tasks {
		if !t.Status().Finished() {
			n++
		}
	}
	return n
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		m.cleanup(time.Now())
	}
}

func (m *Manager) cleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tasks {
		view := t.Snapshot()
		if view.Status.Finished() && !view.EndTime.IsZero() && now.Sub(view.EndTime) > m.ttl {
			delete(m.tasks, id)
			logger.Debug("Expired finished download", "id", id)
		}
	}
}
