package listsync

import "time"

const (
	// DebounceQuiet is how long the search input must be stable before the
	// debounced text is promoted and a fetch becomes due.
	DebounceQuiet = 350 * time.Millisecond

	// DefaultSort matches the server default.
	DefaultSort     = "appliedDate,desc"
	ascendingSort   = "appliedDate,asc"
	DefaultPageSize = 10
)

// PageSizes are the allowed rows-per-page values.
func PageSizes() []int { return []int{5, 10, 20} }

// Filters owns the free-text query, status filter, sort key and page size.
// Raw text updates on every keystroke; only the debounced text is exposed
// downstream. Status, sort and size change synchronously.
//
// Any change to the exposed tuple marks the filters dirty exactly once; the
// owner coalesces simultaneous changes by consuming the dirty flag per tick,
// so one tick yields at most one fetch no matter how many inputs moved.
type Filters struct {
	quiet time.Duration

	rawText  string
	text     string // debounced
	deadline time.Time

	status string
	sort   string
	size   int

	dirty bool
}

func NewFilters() *Filters {
	return &Filters{
		quiet: DebounceQuiet,
		sort:  DefaultSort,
		size:  DefaultPageSize,
	}
}

func (f *Filters) Text() string    { return f.text }
func (f *Filters) RawText() string { return f.rawText }
func (f *Filters) Status() string  { return f.status }
func (f *Filters) Sort() string    { return f.sort }
func (f *Filters) Size() int       { return f.size }

// SetRawText records a keystroke. Each edit restarts the quiet timer; nothing
// is exposed downstream until Flush runs after the deadline.
func (f *Filters) SetRawText(text string, now time.Time) {
	if text == f.rawText {
		return
	}
	f.rawText = text
	f.deadline = now.Add(f.quiet)
}

// Deadline reports when the pending raw text becomes due, if a timer is
// running.
func (f *Filters) Deadline() (time.Time, bool) {
	if f.deadline.IsZero() {
		return time.Time{}, false
	}
	return f.deadline, true
}

// Flush promotes the raw text once the input has been quiet long enough.
// Promoting unchanged text (the user typed back to where they started) does
// not dirty the filters.
func (f *Filters) Flush(now time.Time) {
	if f.deadline.IsZero() || now.Before(f.deadline) {
		return
	}
	f.deadline = time.Time{}
	if f.rawText == f.text {
		return
	}
	f.text = f.rawText
	f.dirty = true
}

// SetStatus applies a status filter ("" means all) with no debounce.
func (f *Filters) SetStatus(status string) {
	if status == f.status {
		return
	}
	f.status = status
	f.dirty = true
}

// ToggleSort flips the applied-date sort direction.
func (f *Filters) ToggleSort() {
	if f.sort == DefaultSort {
		f.sort = ascendingSort
	} else {
		f.sort = DefaultSort
	}
	f.dirty = true
}

// SetSize changes rows-per-page. Values outside PageSizes are ignored.
func (f *Filters) SetSize(size int) {
	if size == f.size {
		return
	}
	ok := false
	for _, allowed := range PageSizes() {
		if size == allowed {
			ok = true
			break
		}
	}
	if !ok {
		return
	}
	f.size = size
	f.dirty = true
}

// TakeDirty consumes the dirty flag. A true return means the exposed tuple
// changed since the last call and exactly one page-0 re-fetch is owed.
func (f *Filters) TakeDirty() bool {
	d := f.dirty
	f.dirty = false
	return d
}
