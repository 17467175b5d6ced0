package listsync

import "jatrack/internal/model"

// MutationKind tags a pending optimistic change.
type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationUpdate
	MutationDelete
)

// Pending is an in-flight optimistic mutation: what was changed, the exact
// pre-mutation list for rollback, and the refresh sequence it was staged
// under so a rollback never resurrects data a later refresh superseded.
type Pending struct {
	Kind MutationKind
	ID   int64

	snapshot   []model.Application
	refreshSeq uint64
}

// ValidateCreate runs the local create preconditions. On error nothing may be
// sent to the server.
func (s *Session) ValidateCreate(a model.Application) error {
	return a.Validate()
}

// ApplyCreate folds a server-confirmed create into the view. In paginated
// mode it reports that a full re-fetch at page 0 is owed so sort order and
// server-side totals stay authoritative; in single-page mode it appends the
// confirmed record directly. The two strategies are never mixed.
func (s *Session) ApplyCreate(created model.Application) (refetch bool) {
	if !s.singlePage {
		s.pager.Reset()
		return true
	}
	items := make([]model.Application, 0, len(s.items)+1)
	items = append(items, s.items...)
	items = append(items, created)
	s.items = items
	return false
}

// StageUpdate snapshots the pre-mutation list and applies the replacement
// optimistically. The caller then issues the network call with the complete
// record (the server contract is whole-record replacement) and settles via
// ResolveUpdate. ErrNotVisible means the target is gone and the update is a
// no-op.
func (s *Session) StageUpdate(next model.Application) (Pending, error) {
	if err := next.Validate(); err != nil {
		return Pending{}, err
	}
	idx := -1
	for i, a := range s.items {
		if a.ID == next.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Pending{}, ErrNotVisible
	}

	p := Pending{
		Kind:       MutationUpdate,
		ID:         next.ID,
		snapshot:   append([]model.Application(nil), s.items...),
		refreshSeq: s.refreshSeq,
	}

	items := append([]model.Application(nil), s.items...)
	items[idx] = next
	s.items = items
	return p, nil
}

// ResolveUpdate settles a staged update. On success the optimistic row is
// replaced with the server's copy. On failure the exact pre-mutation snapshot
// is restored and the error returned for a single user-visible notice —
// unless a later refresh already superseded the snapshot, in which case the
// rollback is dropped and only the error surfaces.
func (s *Session) ResolveUpdate(p Pending, confirmed model.Application, callErr error) error {
	if callErr != nil {
		if p.refreshSeq == s.refreshSeq {
			s.items = p.snapshot
		}
		return callErr
	}
	if p.refreshSeq != s.refreshSeq {
		return nil
	}
	for i, a := range s.items {
		if a.ID == p.ID {
			items := append([]model.Application(nil), s.items...)
			items[i] = confirmed
			s.items = items
			break
		}
	}
	return nil
}

// StageDelete prepares a delete. Deletes are not applied optimistically: the
// row stays visible until the server confirms, so the UI never shows a
// removal that may still fail.
func (s *Session) StageDelete(id int64) (Pending, error) {
	if _, ok := s.Find(id); !ok {
		return Pending{}, ErrNotVisible
	}
	return Pending{
		Kind:       MutationDelete,
		ID:         id,
		refreshSeq: s.refreshSeq,
	}, nil
}

// ResolveDelete settles a delete. On success the record is evicted and the
// pagination rebound rule runs; a true rebound (or any success) means the
// caller owes a re-fetch at the pager's current page. On failure nothing was
// applied, so there is nothing to roll back.
func (s *Session) ResolveDelete(p Pending, callErr error) (rebound bool, err error) {
	if callErr != nil {
		return false, callErr
	}
	if p.refreshSeq != s.refreshSeq {
		return false, nil
	}
	items := make([]model.Application, 0, len(s.items))
	for _, a := range s.items {
		if a.ID != p.ID {
			items = append(items, a)
		}
	}
	s.items = items
	return s.pager.Rebound(len(items)), nil
}
