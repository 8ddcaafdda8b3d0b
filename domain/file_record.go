package domain

import (
	"strings"
	"time"
)

type FileID string

type FileStatus string

const (
	StatusCompleted FileStatus = "completed"
	StatusPending   FileStatus = "pending"
	StatusError     FileStatus = "error"
)

// FileRecord is an immutable snapshot of a stored file as known to a dashboard page.
type FileRecord struct {
	ID               FileID
	OriginalFilename string
	Size             int64
	UploadDate       time.Time
	OwnerUsername    string
	Status           FileStatus
}

// Extension returns the lower-cased text after the last dot of the filename,
// or an empty string when the filename has no dot.
func (f FileRecord) Extension() string {
	return Extension(f.OriginalFilename)
}

func (f FileRecord) Category(t Taxonomy) Category {
	return t.Classify(f.Extension())
}

func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}
