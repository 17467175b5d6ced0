package listsync

import (
	"errors"

	"jatrack/internal/model"
)

// ErrNotVisible means the targeted record is no longer in the visible list
// (usually evicted by a concurrent refresh). Callers treat it as a no-op.
var ErrNotVisible = errors.New("record not in visible list")

// Session keeps one locally-held, paginated, filtered view of server-owned
// records consistent with the server. It is pure state: fetches and mutation
// calls happen outside; the session hands out generation tokens when a fetch
// is issued and discards any completion whose token no longer matches the
// current epoch.
//
// The visible list is replaced atomically on every applied result, never
// patched in place, so renderers always see a consistent snapshot.
type Session struct {
	filters *Filters
	pager   *Pager

	// gen is the current query-descriptor epoch: the token handed to the most
	// recently issued fetch. Only a completion carrying this value may write
	// the visible list.
	gen uint64

	// refreshSeq counts applied refreshes. Rollback snapshots captured before
	// a refresh are stale and must not resurrect old data, so each pending
	// mutation records the sequence it was staged under.
	refreshSeq uint64

	items   []model.Application
	loading bool
	loaded  bool
	lastErr string

	// singlePage marks the unpaginated mode (board view, bare-array servers):
	// a confirmed create appends directly instead of triggering a re-fetch.
	singlePage bool
}

func NewSession() *Session {
	return &Session{
		filters: NewFilters(),
		pager:   NewPager(DefaultPageSize),
	}
}

// NewSinglePageSession returns a session in unpaginated mode. The board view
// uses one: it fetches the full record set in a single oversized page.
func NewSinglePageSession(size int) *Session {
	s := NewSession()
	s.singlePage = true
	s.pager = NewPager(size)
	return s
}

func (s *Session) Filters() *Filters { return s.filters }
func (s *Session) Pager() *Pager     { return s.pager }

// Items returns the visible list. Callers must not mutate it.
func (s *Session) Items() []model.Application { return s.items }

func (s *Session) Loading() bool { return s.loading }

// Loaded reports whether at least one fetch has been applied. It
// distinguishes "no results" from "nothing fetched yet".
func (s *Session) Loaded() bool { return s.loaded }

// Err returns the list-level error message from the most recent failed read,
// or "". The stale list is retained alongside it.
func (s *Session) Err() string { return s.lastErr }

// Find returns the visible record with the given id.
func (s *Session) Find(id int64) (model.Application, bool) {
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return model.Application{}, false
}

// Query returns the current query descriptor.
func (s *Session) Query() model.Query {
	return model.Query{
		Text:   s.filters.Text(),
		Status: s.filters.Status(),
		Sort:   s.filters.Sort(),
		Page:   s.pager.Page(),
		Size:   s.pager.Size(),
	}
}

// BeginFetch opens a new epoch and returns the descriptor plus its generation
// token. Every issued fetch must carry the token back to ApplyPage /
// ApplyFetchError.
func (s *Session) BeginFetch() (model.Query, uint64) {
	s.gen++
	s.loading = true
	return s.Query(), s.gen
}

// FilterChanged consumes a pending filter change. When it reports true the
// page cursor has been reset and one fetch is owed; call BeginFetch next.
func (s *Session) FilterChanged() bool {
	if !s.filters.TakeDirty() {
		return false
	}
	s.pager.SetSize(s.filters.Size())
	return true
}

// ApplyPage installs a fetched page if its token still matches the current
// epoch. Out-of-epoch completions are discarded silently; that is the stale-
// response rule and not a user-facing error.
func (s *Session) ApplyPage(gen uint64, pg model.Page) bool {
	if gen != s.gen {
		return false
	}
	s.items = append([]model.Application(nil), pg.Items...)
	s.pager.Observe(pg)
	s.refreshSeq++
	s.loading = false
	s.loaded = true
	s.lastErr = ""
	return true
}

// ApplyFetchError records a failed read. The stale list is kept; only the
// error message changes. Stale errors are discarded like stale pages.
func (s *Session) ApplyFetchError(gen uint64, err error) bool {
	if gen != s.gen {
		return false
	}
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
	}
	return true
}
