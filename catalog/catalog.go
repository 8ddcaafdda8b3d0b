package catalog

import (
	"dfss-dashboard/domain"
	"log/slog"
	"sync"
)

// Catalog keeps the view state of one page and the working set derived from
// the store. The working set is rebuilt from the store on every view state
// change; changing page only re-slices it.
type Catalog struct {
	mu      sync.Mutex
	store   *Store
	opts    Options
	state   domain.ViewState
	working []domain.FileRecord
	log     *slog.Logger
}

func New(store *Store, opts Options, pageSize int, log *slog.Logger) *Catalog {
	c := &Catalog{
		store: store,
		opts:  opts,
		state: domain.DefaultViewState(pageSize),
		log:   log,
	}
	c.rebuild()
	return c
}

func (c *Catalog) State() domain.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Catalog) Options() Options {
	return c.opts
}

// View returns the current page without recomputing anything.
func (c *Catalog) View() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page()
}

func (c *Catalog) SetSort(key domain.SortKey) Page {
	return c.update(func(s *domain.ViewState) { s.SortKey = key })
}

func (c *Catalog) SetCategory(category domain.Category) Page {
	return c.update(func(s *domain.ViewState) { s.Category = category })
}

func (c *Catalog) SetSearch(term string) Page {
	return c.update(func(s *domain.ViewState) { s.SearchTerm = term })
}

// ClearSearch drops the search term; the working set goes back to the sorted
// and filtered base list.
func (c *Catalog) ClearSearch() Page {
	return c.SetSearch("")
}

// ChangePage moves to pageIndex. Out of range indexes and the current index
// leave the view untouched and report false.
func (c *Catalog) ChangePage(pageIndex int) (Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := TotalPages(len(c.working), c.state.PageSize)
	if pageIndex < 1 || pageIndex > total || pageIndex == c.state.PageIndex {
		return c.page(), false
	}
	c.state.PageIndex = pageIndex
	return c.page(), true
}

// Refresh rebuilds the working set after the store changed, e.g. after an
// upload or a deletion. The current page is kept when it still exists.
func (c *Catalog) Refresh() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuild()
	return c.page()
}

func (c *Catalog) PageRange() []PageLink {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PageRange(c.state.PageIndex, TotalPages(len(c.working), c.state.PageSize))
}

func (c *Catalog) update(change func(s *domain.ViewState)) Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	change(&c.state)
	c.state.PageIndex = 1
	c.rebuild()
	c.log.Debug("Catalog view changed",
		"sort", c.state.SortKey,
		"category", c.state.Category,
		"search", c.state.SearchTerm,
		"working_set", len(c.working))
	return c.page()
}

func (c *Catalog) rebuild() {
	c.working = WorkingSet(c.store.Snapshot(), c.state, c.opts)
	c.state.PageIndex = ClampPage(c.state.PageIndex, TotalPages(len(c.working), c.state.PageSize))
}

func (c *Catalog) page() Page {
	return paginate(c.working, c.state.PageIndex, c.state.PageSize)
}
