package catalog

import (
	"cmp"
	"dfss-dashboard/domain"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Options parametrizes the engine for one kind of page.
type Options struct {
	Taxonomy domain.Taxonomy
	// SearchOwner extends the search to the owner column (multi-owner views).
	SearchOwner bool
	// Language drives the collation used for name ordering.
	Language language.Tag
}

func UserOptions() Options {
	return Options{Taxonomy: domain.DefaultTaxonomy, Language: language.English}
}

func AdminOptions() Options {
	return Options{Taxonomy: domain.DefaultTaxonomy, SearchOwner: true, Language: language.English}
}

// Page is the projection handed to a renderer.
type Page struct {
	Items      []domain.FileRecord
	PageIndex  int
	TotalPages int
	TotalItems int
	PageSize   int
}

// Apply computes the page to display for a base list and a view state.
// It never modifies records and never fails.
func Apply(records []domain.FileRecord, state domain.ViewState, opts Options) Page {
	return paginate(WorkingSet(records, state, opts), state.PageIndex, state.PageSize)
}

// WorkingSet sorts, restricts to the category and then to the search term.
func WorkingSet(records []domain.FileRecord, state domain.ViewState, opts Options) []domain.FileRecord {
	sorted := Sort(records, state.SortKey, opts.Language)
	filtered := FilterCategory(sorted, state.Category, opts.Taxonomy)
	return Search(filtered, state.SearchTerm, opts.SearchOwner)
}

// Sort returns a stably sorted copy. Records with equal keys keep their input
// order. An unknown key leaves the order untouched.
func Sort(records []domain.FileRecord, key domain.SortKey, lang language.Tag) []domain.FileRecord {
	sorted := append([]domain.FileRecord(nil), records...)
	var compare func(a, b domain.FileRecord) int

	switch key {
	case domain.SortDateDesc:
		compare = func(a, b domain.FileRecord) int { return b.UploadDate.Compare(a.UploadDate) }
	case domain.SortDateAsc:
		compare = func(a, b domain.FileRecord) int { return a.UploadDate.Compare(b.UploadDate) }
	case domain.SortNameAsc:
		c := collate.New(lang)
		compare = func(a, b domain.FileRecord) int { return c.CompareString(a.OriginalFilename, b.OriginalFilename) }
	case domain.SortNameDesc:
		c := collate.New(lang)
		compare = func(a, b domain.FileRecord) int { return c.CompareString(b.OriginalFilename, a.OriginalFilename) }
	case domain.SortSizeDesc:
		compare = func(a, b domain.FileRecord) int { return cmp.Compare(b.Size, a.Size) }
	case domain.SortSizeAsc:
		compare = func(a, b domain.FileRecord) int { return cmp.Compare(a.Size, b.Size) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}

func FilterCategory(records []domain.FileRecord, category domain.Category, taxonomy domain.Taxonomy) []domain.FileRecord {
	if category == domain.CategoryAll || category == "" {
		return records
	}
	return lo.Filter(records, func(r domain.FileRecord, _ int) bool {
		return r.Category(taxonomy) == category
	})
}

// Search keeps the records whose filename, or owner when searchOwner is set,
// contains term regardless of case. A blank term keeps everything.
func Search(records []domain.FileRecord, term string, searchOwner bool) []domain.FileRecord {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))
	if needle == "" {
		return records
	}
	return lo.Filter(records, func(r domain.FileRecord, _ int) bool {
		if strings.Contains(fold.String(r.OriginalFilename), needle) {
			return true
		}
		return searchOwner && strings.Contains(fold.String(r.OwnerUsername), needle)
	})
}

// TotalPages is never below one, an empty set still has a first page.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = domain.UserPageSize
	}
	return max(1, (count+pageSize-1)/pageSize)
}

func ClampPage(pageIndex, totalPages int) int {
	return min(max(pageIndex, 1), max(totalPages, 1))
}

func paginate(set []domain.FileRecord, pageIndex, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = domain.UserPageSize
	}
	total := TotalPages(len(set), pageSize)
	pageIndex = ClampPage(pageIndex, total)

	start := min((pageIndex-1)*pageSize, len(set))
	end := min(pageIndex*pageSize, len(set))

	return Page{
		Items:      append([]domain.FileRecord(nil), set[start:end]...),
		PageIndex:  pageIndex,
		TotalPages: total,
		TotalItems: len(set),
		PageSize:   pageSize,
	}
}
