package httpapi

import (
	"dfss-dashboard/domain"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// uploadDateLayouts are tried in order. SQLite's CURRENT_TIMESTAMP is UTC
// without a zone marker.
var uploadDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC1123,
}

type wireRecord struct {
	ID               int64  `json:"id" validate:"gte=0"`
	OriginalFilename string `json:"original_filename" validate:"required"`
	Size             int64  `json:"size" validate:"gte=0"`
	UploadDate       string `json:"upload_date"`
	Username         string `json:"username"`
	Status           string `json:"status" validate:"omitempty,oneof=completed pending error"`
}

type uploadResponse struct {
	Message  string `json:"message"`
	FileID   int64  `json:"file_id"`
	Replicas int    `json:"replicas"`
}

func (w wireRecord) toDomain() (domain.FileRecord, error) {
	if err := validate.Struct(w); err != nil {
		return domain.FileRecord{}, err
	}
	status := domain.FileStatus(w.Status)
	if status == "" {
		status = domain.StatusCompleted
	}
	return domain.FileRecord{
		ID:               domain.FileID(strconv.FormatInt(w.ID, 10)),
		OriginalFilename: w.OriginalFilename,
		Size:             w.Size,
		UploadDate:       parseUploadDate(w.UploadDate),
		OwnerUsername:    w.Username,
		Status:           status,
	}, nil
}

// parseUploadDate returns the zero time when the value matches no known layout,
// which sorts the record as the oldest.
func parseUploadDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range uploadDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (r uploadResponse) fileID() domain.FileID {
	return domain.FileID(strconv.FormatInt(r.FileID, 10))
}
