package listsync

import (
	"errors"
	"testing"

	"jatrack/internal/model"
)

func app(id int64, company string, st model.Status) model.Application {
	return model.Application{ID: id, Company: company, RoleTitle: "Engineer", Status: st}
}

func TestSession_StaleFetchNeverUpdatesVisibleList(t *testing.T) {
	s := NewSession()

	_, older := s.BeginFetch()
	_, newer := s.BeginFetch()

	// The newer request completes first.
	if !s.ApplyPage(newer, model.Page{
		Items:      []model.Application{app(2, "Beta", model.StatusApplied)},
		TotalPages: 1, TotalElements: 1,
	}) {
		t.Fatalf("current-epoch page was rejected")
	}

	// The older request completes afterwards and must be discarded.
	if s.ApplyPage(older, model.Page{
		Items:      []model.Application{app(1, "Alpha", model.StatusApplied)},
		TotalPages: 1, TotalElements: 1,
	}) {
		t.Fatalf("stale page was applied")
	}

	items := s.Items()
	if len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("visible list overwritten by stale result: %+v", items)
	}
}

func TestSession_StaleErrorDiscardedSilently(t *testing.T) {
	s := NewSession()
	_, older := s.BeginFetch()
	_, newer := s.BeginFetch()

	s.ApplyPage(newer, model.Page{Items: []model.Application{app(1, "A", model.StatusApplied)}, TotalPages: 1})
	if s.ApplyFetchError(older, errors.New("boom")) {
		t.Fatalf("stale error was applied")
	}
	if s.Err() != "" {
		t.Fatalf("stale error surfaced: %q", s.Err())
	}
}

func TestSession_FailedReadKeepsStaleListAndSurfacesError(t *testing.T) {
	s := NewSession()
	_, gen := s.BeginFetch()
	s.ApplyPage(gen, model.Page{Items: []model.Application{app(1, "A", model.StatusApplied)}, TotalPages: 1, TotalElements: 1})

	_, gen = s.BeginFetch()
	if !s.ApplyFetchError(gen, errors.New("server exploded")) {
		t.Fatalf("current-epoch error rejected")
	}
	if len(s.Items()) != 1 {
		t.Fatalf("stale list dropped on read error")
	}
	if s.Err() == "" {
		t.Fatalf("read error not surfaced")
	}

	// The next successful fetch clears the error.
	_, gen = s.BeginFetch()
	s.ApplyPage(gen, model.Page{TotalPages: 1})
	if s.Err() != "" {
		t.Fatalf("error retained after successful fetch: %q", s.Err())
	}
}

func TestSession_EmptyPageIsNotAnError(t *testing.T) {
	s := NewSession()
	_, gen := s.BeginFetch()
	s.ApplyPage(gen, model.Page{TotalPages: 0})

	if !s.Loaded() {
		t.Fatalf("session not marked loaded")
	}
	if s.Err() != "" {
		t.Fatalf("empty page surfaced as error: %q", s.Err())
	}
	if len(s.Items()) != 0 {
		t.Fatalf("expected no rows")
	}
}

func TestSession_FilterChangeResetsPageAndOwesOneFetch(t *testing.T) {
	s := NewSession()
	_, gen := s.BeginFetch()
	s.ApplyPage(gen, model.Page{TotalPages: 4, TotalElements: 31})
	s.Pager().Next()

	s.Filters().SetStatus("OFFER")
	if !s.FilterChanged() {
		t.Fatalf("filter change not reported")
	}
	if s.Pager().Page() != 0 {
		t.Fatalf("page = %d after filter change, want 0", s.Pager().Page())
	}
	if s.FilterChanged() {
		t.Fatalf("filter change reported twice for one change set")
	}
}

func TestCredentialWait_Bounded(t *testing.T) {
	var w CredentialWait
	for i := 0; i < CredentialRetryLimit; i++ {
		if !w.Retry() {
			t.Fatalf("retry budget exhausted early at %d", i)
		}
	}
	if w.Retry() {
		t.Fatalf("retry allowed past the bound")
	}
	w.Reset()
	if !w.Retry() {
		t.Fatalf("retry denied after reset")
	}
}
