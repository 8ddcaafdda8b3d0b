package catalog

import (
	"dfss-dashboard/domain"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newCatalog(records []domain.FileRecord, pageSize int) (*Catalog, *Store) {
	store := NewStore(records...)
	return New(store, UserOptions(), pageSize, logs.GetLoggerFromLevel(slog.LevelDebug)), store
}

func TestCatalog_ChangePage(t *testing.T) {
	req := require.New(t)
	catalog, _ := newCatalog(twentyFive(), 12)
	catalog.SetSort(domain.SortNameAsc)

	// Given three pages
	req.Equal(3, catalog.View().TotalPages)

	// When moving past the last page, nothing changes
	page, changed := catalog.ChangePage(4)
	req.False(changed)
	req.Equal(1, page.PageIndex)

	_, changed = catalog.ChangePage(0)
	req.False(changed)

	_, changed = catalog.ChangePage(1)
	req.False(changed, "moving to the current page is a no-op")

	// When moving to page 2
	page, changed = catalog.ChangePage(2)
	req.True(changed)
	req.Equal(2, page.PageIndex)
	req.Equal("13", string(page.Items[0].ID))
	req.Equal("24", string(page.Items[len(page.Items)-1].ID))
	req.Equal(2, catalog.State().PageIndex)
}

func TestCatalog_ChangePageDoesNotRecompute(t *testing.T) {
	req := require.New(t)
	catalog, store := newCatalog(twentyFive(), 12)

	// Given the store grew behind the catalog's back
	store.Append(record("26", "file-26.txt", 26, 0))

	// When paging, the cached working set is reused
	page, changed := catalog.ChangePage(3)
	req.True(changed)
	req.Equal(25, page.TotalItems)

	// Then a refresh picks up the new record and keeps the page
	page = catalog.Refresh()
	req.Equal(26, page.TotalItems)
	req.Equal(3, page.PageIndex)
}

func TestCatalog_ViewChangesResetPage(t *testing.T) {
	req := require.New(t)
	catalog, _ := newCatalog(twentyFive(), 5)

	_, changed := catalog.ChangePage(4)
	req.True(changed)

	req.Equal(1, catalog.SetSort(domain.SortSizeDesc).PageIndex)

	catalog.ChangePage(3)
	req.Equal(1, catalog.SetCategory(domain.CategoryDocument).PageIndex)

	catalog.ChangePage(2)
	req.Equal(1, catalog.SetSearch("file").PageIndex)

	catalog.ChangePage(2)
	page := catalog.ClearSearch()
	req.Equal(1, page.PageIndex)
	req.Equal(domain.SortSizeDesc, catalog.State().SortKey)
	req.Equal(domain.CategoryDocument, catalog.State().Category)
}

func TestCatalog_ClearSearchRestoresFilteredSet(t *testing.T) {
	req := require.New(t)
	records := []domain.FileRecord{
		record("1", "notes.txt", 1, 1),
		record("2", "song.mp3", 2, 2),
		record("3", "cv.pdf", 3, 3),
		record("4", "draft-notes.docx", 4, 4),
		record("5", "cover.png", 5, 5),
	}
	catalog, _ := newCatalog(records, 100)

	before := catalog.SetCategory(domain.CategoryDocument).Items
	req.Len(before, 3)

	searched := catalog.SetSearch("notes").Items
	req.ElementsMatch([]string{"1", "4"}, ids(searched))

	// Searching again on a narrower term still starts from the base list
	req.ElementsMatch([]string{"3"}, ids(catalog.SetSearch("cv").Items))

	after := catalog.ClearSearch().Items
	req.ElementsMatch(ids(before), ids(after))
	req.Equal(ids(before), ids(after))
}

func TestCatalog_RefreshClampsPage(t *testing.T) {
	req := require.New(t)
	catalog, store := newCatalog(twentyFive(), 12)
	catalog.ChangePage(3)

	// When the only record of page 3 goes away
	last := catalog.View().Items[0]
	req.True(store.Remove(last.ID))

	page := catalog.Refresh()
	req.Equal(2, page.TotalPages)
	req.Equal(2, page.PageIndex)
}

func TestCatalog_EmptyStore(t *testing.T) {
	req := require.New(t)
	catalog, _ := newCatalog(nil, 12)

	page := catalog.View()
	req.Equal(1, page.PageIndex)
	req.Equal(1, page.TotalPages)
	req.Empty(page.Items)
	req.Equal([]PageLink{{Number: 1}}, catalog.PageRange())

	_, changed := catalog.ChangePage(2)
	req.False(changed)
}

func TestCatalog_AdminSearchesOwners(t *testing.T) {
	req := require.New(t)
	records := []domain.FileRecord{
		{ID: "1", OriginalFilename: "a.txt", OwnerUsername: "bob"},
		{ID: "2", OriginalFilename: "bobcat.png", OwnerUsername: "carol"},
		{ID: "3", OriginalFilename: "c.txt", OwnerUsername: "dave"},
	}
	store := NewStore(records...)

	admin := New(store, AdminOptions(), domain.AdminPageSize, logs.GetLoggerFromLevel(slog.LevelInfo))
	user := New(store, UserOptions(), domain.UserPageSize, logs.GetLoggerFromLevel(slog.LevelInfo))

	req.ElementsMatch([]string{"1", "2"}, ids(admin.SetSearch("BOB").Items))
	req.ElementsMatch([]string{"2"}, ids(user.SetSearch("BOB").Items))
}
