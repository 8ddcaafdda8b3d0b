package catalog

// PageLink is one entry of a pagination bar: a page number or an ellipsis.
type PageLink struct {
	Number   int
	Ellipsis bool
}

// PageRange lists the links to show around pageIndex. The first and last pages
// are always present, as is every page at distance one from the current page.
// Two or more skipped pages collapse into a single ellipsis; a lone skipped
// page is shown instead.
func PageRange(pageIndex, totalPages int) []PageLink {
	totalPages = max(totalPages, 1)
	pageIndex = ClampPage(pageIndex, totalPages)

	shown := make([]int, 0, 5)
	for _, p := range []int{1, pageIndex - 1, pageIndex, pageIndex + 1, totalPages} {
		if p < 1 || p > totalPages {
			continue
		}
		if len(shown) > 0 && shown[len(shown)-1] >= p {
			continue
		}
		shown = append(shown, p)
	}

	links := make([]PageLink, 0, len(shown)+2)
	previous := 0
	for _, p := range shown {
		switch gap := p - previous - 1; {
		case gap == 1:
			links = append(links, PageLink{Number: previous + 1})
		case gap >= 2:
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Number: p})
		previous = p
	}
	return links
}
