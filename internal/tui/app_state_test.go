package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jatrack/internal/api"
	"jatrack/internal/listsync"
	"jatrack/internal/model"
)

func testModel(t *testing.T) appModel {
	t.Helper()
	client := api.NewClient("http://127.0.0.1:1", api.StaticToken("test-token"))
	return newAppModel(client, api.TokenFile{}, 10, nil)
}

func step(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func page(items ...model.Application) model.Page {
	return model.Page{Items: items, Size: 10, TotalElements: int64(len(items)), TotalPages: 1}
}

func TestStaleFetchCompletionIsDiscarded(t *testing.T) {
	m := testModel(t)

	_, gen := m.list.BeginFetch()
	m, _ = step(t, m, fetchDoneMsg{gen: gen, page: page(
		model.Application{ID: 1, Company: "Acme", RoleTitle: "Eng", Status: model.StatusApplied},
	)})
	if len(m.list.Items()) != 1 {
		t.Fatalf("current-epoch page not applied")
	}

	// A completion from a superseded epoch must not overwrite the list.
	m, _ = step(t, m, fetchDoneMsg{gen: gen - 1, page: page(
		model.Application{ID: 99, Company: "Stale", RoleTitle: "Old", Status: model.StatusOffer},
	)})
	if m.list.Items()[0].Company != "Acme" {
		t.Fatalf("stale page overwrote the visible list")
	}
}

func TestSearchKeystrokesDebounceBeforeFetching(t *testing.T) {
	m := testModel(t)
	m.mode = modeList

	m, _ = step(t, m, keyMsg("/"))
	if !m.searching {
		t.Fatalf("slash did not focus the search input")
	}

	m, _ = step(t, m, keyMsg("a"))
	m, _ = step(t, m, keyMsg("c"))

	if got := m.list.Filters().RawText(); got != "ac" {
		t.Fatalf("raw text = %q, want %q", got, "ac")
	}
	if m.list.Filters().Text() != "" {
		t.Fatalf("text promoted before the quiet period elapsed")
	}

	// A tick that fires before the deadline must not trigger a fetch.
	var cmd tea.Cmd
	m, cmd = step(t, m, debounceTickMsg{})
	if cmd != nil {
		t.Fatalf("fetch issued before the debounce deadline")
	}

	// Simulate the deadline passing, then the tick promotes and fetches.
	m.list.Filters().Flush(time.Now().Add(time.Second))
	if !m.list.FilterChanged() {
		t.Fatalf("flushed text did not mark the filters changed")
	}
}

func TestFailedFetchKeepsStaleListAndShowsError(t *testing.T) {
	m := testModel(t)

	_, gen := m.list.BeginFetch()
	m, _ = step(t, m, fetchDoneMsg{gen: gen, page: page(
		model.Application{ID: 1, Company: "Acme", RoleTitle: "Eng", Status: model.StatusApplied},
	)})

	_, gen = m.list.BeginFetch()
	m, _ = step(t, m, fetchDoneMsg{gen: gen, err: &api.RequestError{StatusCode: 500, Body: "boom"}})

	if len(m.list.Items()) != 1 {
		t.Fatalf("failed read dropped the stale list")
	}
	if m.list.Err() == "" {
		t.Fatalf("failed read left no error message")
	}
}

func TestBoardDropStagesOptimisticStatusChange(t *testing.T) {
	m := testModel(t)

	// Enter board mode and seed the single-page session.
	m, _ = step(t, m, keyMsg("b"))
	if m.mode != modeBoard || m.board == nil {
		t.Fatalf("board mode not entered")
	}
	_, gen := m.board.BeginFetch()
	m, _ = step(t, m, boardDoneMsg{gen: gen, page: page(
		model.Application{ID: 7, Company: "Acme", RoleTitle: "Eng", Status: model.StatusApplied},
	)})

	// Pick up the card, move right one column, drop.
	m, _ = step(t, m, keyMsg(" "))
	if !m.drag.Active() {
		t.Fatalf("space did not pick up the card")
	}
	m, _ = step(t, m, keyMsg("l"))
	var cmd tea.Cmd
	m, cmd = step(t, m, keyMsg(" "))
	if cmd == nil {
		t.Fatalf("drop did not issue the update call")
	}

	got, ok := m.board.Find(7)
	if !ok || got.Status != model.StatusHRScreen {
		t.Fatalf("optimistic status = %v, want HR_SCREEN", got.Status)
	}
	if m.drag.Active() {
		t.Fatalf("drag still active after drop")
	}
}

func TestBoardDropRollsBackOnFailure(t *testing.T) {
	m := testModel(t)
	m, _ = step(t, m, keyMsg("b"))
	_, gen := m.board.BeginFetch()
	m, _ = step(t, m, boardDoneMsg{gen: gen, page: page(
		model.Application{ID: 7, Company: "Acme", RoleTitle: "Eng", Status: model.StatusApplied},
	)})

	rec, _ := m.board.Find(7)
	pending, err := m.board.StageUpdate(listsync.DropUpdate(rec, model.StatusOffer))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if got, _ := m.board.Find(7); got.Status != model.StatusOffer {
		t.Fatalf("optimistic move not applied")
	}

	m, _ = step(t, m, updateDoneMsg{
		pending: pending,
		err:     &api.RequestError{StatusCode: 500, Body: "server sad"},
		board:   true,
	})
	if got, _ := m.board.Find(7); got.Status != model.StatusApplied {
		t.Fatalf("card did not return to its source column after rollback")
	}
	if !m.noticeErr {
		t.Fatalf("failed update produced no error notice")
	}
}

func TestEvictedDragTargetDropIsNoOp(t *testing.T) {
	m := testModel(t)
	m, _ = step(t, m, keyMsg("b"))
	_, gen := m.board.BeginFetch()
	m, _ = step(t, m, boardDoneMsg{gen: gen, page: page(
		model.Application{ID: 7, Company: "Acme", RoleTitle: "Eng", Status: model.StatusApplied},
	)})

	m, _ = step(t, m, keyMsg(" "))
	m, _ = step(t, m, keyMsg("l"))

	// A refresh evicts the dragged record before the drop lands.
	_, gen = m.board.BeginFetch()
	m, _ = step(t, m, boardDoneMsg{gen: gen, page: page()})

	var cmd tea.Cmd
	m, cmd = step(t, m, keyMsg(" "))
	if cmd != nil {
		t.Fatalf("drop on an evicted record issued a call")
	}
	if m.drag.Active() {
		t.Fatalf("drag did not return to idle")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m := testModel(t)
	_, gen := m.list.BeginFetch()
	m, _ = step(t, m, fetchDoneMsg{gen: gen, page: page(
		model.Application{ID: 3, Company: "Acme", RoleTitle: "Eng", Status: model.StatusApplied},
	)})

	m, _ = step(t, m, keyMsg("d"))
	if m.mode != modeConfirmDelete {
		t.Fatalf("d did not open the confirmation")
	}
	if len(m.list.Items()) != 1 {
		t.Fatalf("row removed before confirmation")
	}

	m, _ = step(t, m, keyMsg("n"))
	if m.mode != modeList || len(m.list.Items()) != 1 {
		t.Fatalf("declining the confirmation changed the list")
	}

	m, _ = step(t, m, keyMsg("d"))
	var cmd tea.Cmd
	m, cmd = step(t, m, keyMsg("y"))
	if cmd == nil {
		t.Fatalf("confirming did not issue the delete call")
	}
	if len(m.list.Items()) != 1 {
		t.Fatalf("row removed optimistically; deletes must wait for the server")
	}
}

func TestStatusFilterCycleWrapsToAll(t *testing.T) {
	m := testModel(t)

	seen := map[string]bool{}
	for range model.Statuses() {
		m.cycleStatusFilter()
		seen[m.list.Filters().Status()] = true
	}
	if len(seen) != len(model.Statuses()) {
		t.Fatalf("cycle visited %d statuses, want %d", len(seen), len(model.Statuses()))
	}
	m.cycleStatusFilter()
	if m.list.Filters().Status() != "" {
		t.Fatalf("cycle did not wrap back to all")
	}
}

func TestPageSizeCycleStaysWithinAllowedSizes(t *testing.T) {
	m := testModel(t)
	for i := 0; i < 5; i++ {
		m.cyclePageSize()
		size := m.list.Filters().Size()
		ok := false
		for _, allowed := range []int{5, 10, 20} {
			if size == allowed {
				ok = true
			}
		}
		if !ok {
			t.Fatalf("cycled to disallowed size %d", size)
		}
	}
}
