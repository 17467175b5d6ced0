package listsync

import "jatrack/internal/model"

// Pager owns the page cursor and the totals learned from the most recent
// fetched page.
type Pager struct {
	page          int
	size          int
	totalPages    int
	totalElements int64
}

func NewPager(size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{size: size}
}

func (p *Pager) Page() int            { return p.page }
func (p *Pager) Size() int            { return p.size }
func (p *Pager) TotalPages() int      { return p.totalPages }
func (p *Pager) TotalElements() int64 { return p.totalElements }

func (p *Pager) HasPrev() bool { return p.page > 0 }
func (p *Pager) HasNext() bool { return p.page+1 < p.totalPages }

// Next advances the cursor; it reports whether it moved.
func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.page++
	return true
}

// Prev steps the cursor back; it reports whether it moved.
func (p *Pager) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.page--
	return true
}

// Reset returns to the first page. Used whenever the filter/sort tuple
// changes: a page cursor is only meaningful relative to a fixed filter.
func (p *Pager) Reset() { p.page = 0 }

// SetSize changes rows-per-page and resets to page 0.
func (p *Pager) SetSize(size int) {
	if size > 0 {
		p.size = size
	}
	p.page = 0
}

// Observe learns totals from a fetched page. An empty collection may report
// totalPages as 0 or 1; both are tolerated and the cursor is clamped so the
// invariant page < max(totalPages, 1) holds.
func (p *Pager) Observe(pg model.Page) {
	p.totalPages = pg.TotalPages
	p.totalElements = pg.TotalElements
	max := p.totalPages
	if max < 1 {
		max = 1
	}
	if p.page >= max {
		p.page = max - 1
	}
	if p.page < 0 {
		p.page = 0
	}
}

// Rebound applies the post-delete rule: when a delete empties the current
// page and that page is not the first, step back exactly one page before the
// re-fetch. This is the only transition driven by a mutation outcome.
func (p *Pager) Rebound(itemsLeftOnPage int) bool {
	if itemsLeftOnPage > 0 || p.page <= 0 {
		return false
	}
	p.page--
	return true
}
