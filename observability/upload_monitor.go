package observability

import (
	"dfss-dashboard/domain"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const recentLimit = 20

// RecentUpload is one finished transfer, newest first in UploadStats.
type RecentUpload struct {
	TaskID    string `json:"task_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// UploadStats aggregates the transfers of a session.
type UploadStats struct {
	Completed   uint64         `json:"completed"`
	Failed      uint64         `json:"failed"`
	BytesSent   uint64         `json:"bytes_sent"`
	BytesPerSec float64        `json:"bytes_per_sec"`
	Recent      []RecentUpload `json:"recent"`
}

// UploadMonitor counts the transfers reported by the upload queue.
type UploadMonitor struct {
	log     *slog.Logger
	now     func() time.Time
	started time.Time

	completed atomic.Uint64
	failed    atomic.Uint64
	bytesSent atomic.Uint64

	mu     sync.RWMutex
	recent []RecentUpload
}

func NewUploadMonitor(log *slog.Logger) *UploadMonitor {
	return &UploadMonitor{
		log:     log,
		now:     time.Now,
		started: time.Now(),
		recent:  make([]RecentUpload, 0, recentLimit),
	}
}

// Observe is meant to be chained into the queue's task callback. Only the
// terminal states are counted.
func (m *UploadMonitor) Observe(task domain.UploadTask) {
	switch task.State {
	case domain.TaskCompleted:
		m.completed.Add(1)
		m.bytesSent.Add(uint64(max(task.SizeBytes, 0)))
	case domain.TaskFailed:
		m.failed.Add(1)
	default:
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	entry := RecentUpload{
		TaskID:    task.ID,
		Name:      task.Name,
		Status:    string(task.State),
		Timestamp: m.now().Format("15:04:05"),
	}
	m.recent = append([]RecentUpload{entry}, m.recent...)
	if len(m.recent) > recentLimit {
		m.recent = m.recent[:recentLimit]
	}
	m.log.Debug("Transfer recorded", "name", task.Name, "status", task.State)
}

func (m *UploadMonitor) Stats() UploadStats {
	m.mu.RLock()
	recent := append([]RecentUpload(nil), m.recent...)
	m.mu.RUnlock()

	stats := UploadStats{
		Completed: m.completed.Load(),
		Failed:    m.failed.Load(),
		BytesSent: m.bytesSent.Load(),
		Recent:    recent,
	}
	if elapsed := m.now().Sub(m.started).Seconds(); elapsed > 0 {
		stats.BytesPerSec = float64(stats.BytesSent) / elapsed
	}
	return stats
}
