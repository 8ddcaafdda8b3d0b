package catalog

import (
	"dfss-dashboard/domain"
	"time"

	"github.com/samber/lo"
)

// RecentFiles is the length of the recent uploads list of the dashboard.
const RecentFiles = 5

// Summary feeds the dashboard cards: file count, storage used, per category counts.
type Summary struct {
	Files      int
	TotalBytes int64
	ByCategory map[domain.Category]int
	LastUpload time.Time
	Recent     []domain.FileRecord
}

func Summarize(records []domain.FileRecord, taxonomy domain.Taxonomy) Summary {
	summary := Summary{
		Files:      len(records),
		TotalBytes: lo.SumBy(records, func(r domain.FileRecord) int64 { return r.Size }),
		ByCategory: lo.CountValuesBy(records, func(r domain.FileRecord) domain.Category { return r.Category(taxonomy) }),
		Recent:     Recent(records, RecentFiles),
	}
	if len(records) > 0 {
		latest := lo.MaxBy(records, func(a, b domain.FileRecord) bool { return a.UploadDate.After(b.UploadDate) })
		summary.LastUpload = latest.UploadDate
	}
	return summary
}

// Recent returns the n most recently uploaded records, newest first.
func Recent(records []domain.FileRecord, n int) []domain.FileRecord {
	sorted := Sort(records, domain.SortDateDesc, UserOptions().Language)
	return sorted[:min(max(n, 0), len(sorted))]
}
