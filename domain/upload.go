package domain

import "io"

// LocalFile is a file selected on the client side and not yet transferred.
type LocalFile struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// DedupKey identifies a selection: the same name with the same size is the same file.
type DedupKey struct {
	Name string
	Size int64
}

func (f LocalFile) Key() DedupKey {
	return DedupKey{Name: f.Name, Size: f.Size}
}

type TaskState string

const (
	TaskQueued    TaskState = "queued"
	TaskUploading TaskState = "uploading"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "failed"
)

type UploadTask struct {
	ID              string
	Name            string
	SizeBytes       int64
	State           TaskState
	ProgressPercent int
	Err             string
	Record          *FileRecord
}

func (t UploadTask) Key() DedupKey {
	return DedupKey{Name: t.Name, Size: t.SizeBytes}
}

type QueueStatus string

const (
	QueueIdle      QueueStatus = "idle"
	QueueRunning   QueueStatus = "running"
	QueueFailed    QueueStatus = "failed"
	QueueCompleted QueueStatus = "completed"
)

// FailurePolicy decides what happens to the remaining tasks once one transfer fails.
type FailurePolicy string

const (
	HaltOnFailure     FailurePolicy = "halt"
	ContinueOnFailure FailurePolicy = "continue"
)
