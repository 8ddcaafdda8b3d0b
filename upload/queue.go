package upload

import (
	"context"
	"dfss-dashboard/contract"
	"dfss-dashboard/domain"
	"dfss-dashboard/errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// TaskFunc is called with a snapshot of a task each time its state or progress changes.
// It may be called from the transport's goroutine.
type TaskFunc func(task domain.UploadTask)

// StatusFunc receives the overall status of the queue.
type StatusFunc func(status domain.QueueStatus)

type entry struct {
	task domain.UploadTask
	file domain.LocalFile
}

// Queue holds the files selected for upload and sends them one at a time.
// Each task moves queued -> uploading -> completed | failed and never back.
type Queue struct {
	mu      sync.Mutex
	entries []*entry
	running bool
	sink    contract.RecordSink
	policy  domain.FailurePolicy
	log     *slog.Logger
}

type Option func(q *Queue)

func WithFailurePolicy(policy domain.FailurePolicy) Option {
	return func(q *Queue) {
		q.policy = policy
	}
}

// NewQueue creates an empty queue. Records of completed uploads go to sink.
func NewQueue(sink contract.RecordSink, log *slog.Logger, opts ...Option) *Queue {
	q := &Queue{
		sink:   sink,
		policy: domain.HaltOnFailure,
		log:    log,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// AddFiles appends the files whose (name, size) is not in the queue yet, in
// selection order, and returns the resulting tasks.
func (q *Queue) AddFiles(files ...domain.LocalFile) []domain.UploadTask {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, file := range files {
		exists := lo.ContainsBy(q.entries, func(e *entry) bool { return e.task.Key() == file.Key() })
		if exists {
			q.log.Debug("File already selected", "name", file.Name, "size", file.Size)
			continue
		}
		q.entries = append(q.entries, &entry{
			task: domain.UploadTask{
				ID:        uuid.NewString(),
				Name:      file.Name,
				SizeBytes: file.Size,
				State:     domain.TaskQueued,
			},
			file: file,
		})
	}
	return q.snapshot()
}

// RemoveAt drops the task at index. Only a queued task can be removed.
func (q *Queue) RemoveAt(index int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.entries) {
		return fmt.Errorf("remove task %d of %d: %w", index, len(q.entries), errors.ErrIndexOutOfRange)
	}
	if state := q.entries[index].task.State; state != domain.TaskQueued {
		return fmt.Errorf("remove task %q in state %s: %w", q.entries[index].task.Name, state, errors.ErrTaskStarted)
	}
	q.entries = append(q.entries[:index:index], q.entries[index+1:]...)
	return nil
}

// Cancel drops every queued task and returns how many were dropped. A task
// already uploading is left to finish: the transport cannot be interrupted.
func (q *Queue) Cancel() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := lo.Reject(q.entries, func(e *entry, _ int) bool { return e.task.State == domain.TaskQueued })
	dropped := len(q.entries) - len(kept)
	q.entries = kept
	if dropped > 0 {
		q.log.Info("Upload queue cancelled", "dropped", dropped)
	}
	return dropped
}

// Clear empties the queue, e.g. once the page has shown a successful upload.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return errors.ErrQueueRunning
	}
	q.entries = nil
	return nil
}

func (q *Queue) Tasks() []domain.UploadTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshot()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue) Status() domain.QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return DeriveStatus(q.snapshot())
}

// DeriveStatus is running while a task uploads, failed once any task failed and
// completed only when every task completed.
func DeriveStatus(tasks []domain.UploadTask) domain.QueueStatus {
	switch {
	case lo.SomeBy(tasks, func(t domain.UploadTask) bool { return t.State == domain.TaskUploading }):
		return domain.QueueRunning
	case lo.SomeBy(tasks, func(t domain.UploadTask) bool { return t.State == domain.TaskFailed }):
		return domain.QueueFailed
	case len(tasks) > 0 && lo.EveryBy(tasks, func(t domain.UploadTask) bool { return t.State == domain.TaskCompleted }):
		return domain.QueueCompleted
	default:
		return domain.QueueIdle
	}
}

// Run sends the queued tasks strictly one after the other: the next transfer
// starts only once the previous one completed or failed. Under HaltOnFailure
// the first failure stops the run and the remaining tasks stay queued. Files
// added while running are sent by the same run. The returned error is the
// first transfer failure, or the context error.
func (q *Queue) Run(ctx context.Context, transport contract.Transport, onTask TaskFunc, onStatus StatusFunc) (domain.QueueStatus, error) {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return domain.QueueRunning, errors.ErrQueueRunning
	}
	q.running = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.running = false
		q.mu.Unlock()
	}()

	var runErr error
	started := false
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		e, task := q.next()
		if e == nil {
			break
		}
		if !started && onStatus != nil {
			onStatus(domain.QueueRunning)
		}
		started = true
		notify(onTask, task)

		q.log.Info("Upload started", "file", task.Name, "size", task.SizeBytes, "task_id", task.ID)
		record, err := transport.Send(ctx, e.file, q.progress(e, onTask))
		notify(onTask, q.finish(e, record, err))

		if err != nil {
			q.log.Warn("Upload failed", "file", task.Name, "task_id", task.ID, "error", err)
			if runErr == nil {
				runErr = fmt.Errorf("upload %s: %w", task.Name, err)
			}
			if q.policy != domain.ContinueOnFailure {
				break
			}
			continue
		}

		q.log.Info("Upload completed", "file", task.Name, "record_id", record.ID)
		if q.sink != nil {
			q.sink.Append(record)
		}
	}

	status := q.Status()
	if onStatus != nil {
		onStatus(status)
	}
	return status, runErr
}

// next marks the first queued task as uploading.
func (q *Queue) next() (*entry, domain.UploadTask) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := lo.Find(q.entries, func(e *entry) bool { return e.task.State == domain.TaskQueued })
	if !ok {
		return nil, domain.UploadTask{}
	}
	e.task.State = domain.TaskUploading
	e.task.ProgressPercent = 0
	return e, e.task
}

func (q *Queue) progress(e *entry, onTask TaskFunc) contract.ProgressFunc {
	return func(loaded, total int64) {
		q.mu.Lock()
		if e.task.State != domain.TaskUploading {
			q.mu.Unlock()
			return
		}
		e.task.ProgressPercent = Percent(loaded, total)
		task := e.task
		q.mu.Unlock()
		notify(onTask, task)
	}
}

func (q *Queue) finish(e *entry, record domain.FileRecord, err error) domain.UploadTask {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err != nil {
		e.task.State = domain.TaskFailed
		e.task.Err = errors.Message(err)
		return e.task
	}
	e.task.State = domain.TaskCompleted
	e.task.ProgressPercent = 100
	e.task.Record = &record
	return e.task
}

func (q *Queue) snapshot() []domain.UploadTask {
	return lo.Map(q.entries, func(e *entry, _ int) domain.UploadTask { return e.task })
}

func notify(onTask TaskFunc, task domain.UploadTask) {
	if onTask != nil {
		onTask(task)
	}
}

// Percent turns a byte count into a rounded percentage within [0, 100].
func Percent(loaded, total int64) int {
	if total <= 0 {
		return 0
	}
	p := math.Round(float64(loaded) * 100 / float64(total))
	return int(min(max(p, 0), 100))
}
