package domain

type SortKey string

const (
	SortDateDesc SortKey = "date-desc"
	SortDateAsc  SortKey = "date-asc"
	SortNameAsc  SortKey = "name-asc"
	SortNameDesc SortKey = "name-desc"
	SortSizeDesc SortKey = "size-desc"
	SortSizeAsc  SortKey = "size-asc"
)

var SortKeys = []SortKey{SortDateDesc, SortDateAsc, SortNameAsc, SortNameDesc, SortSizeDesc, SortSizeAsc}

func ToSortKey(s string) (SortKey, bool) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, true
		}
	}
	return SortDateDesc, false
}

const (
	UserPageSize  = 12
	AdminPageSize = 10
)

// ViewState is what the user chose to look at. It is never persisted.
type ViewState struct {
	SortKey    SortKey
	Category   Category
	SearchTerm string
	PageIndex  int
	PageSize   int
}

func DefaultViewState(pageSize int) ViewState {
	return ViewState{
		SortKey:   SortDateDesc,
		Category:  CategoryAll,
		PageIndex: 1,
		PageSize:  pageSize,
	}
}
