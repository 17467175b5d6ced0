package tui

import (
	"strings"
	"testing"

	"jatrack/internal/listsync"
	"jatrack/internal/model"
)

func boardFixture() []listsync.Column {
	return listsync.Group([]model.Application{
		{ID: 1, Company: "Acme", RoleTitle: "Backend Engineer", Status: model.StatusApplied},
		{ID: 2, Company: "Globex", RoleTitle: "SRE", Status: model.StatusOffer},
		{ID: 3, Company: "Initech", RoleTitle: "Frontend Engineer", Status: model.StatusApplied},
	})
}

func TestRenderBoardShowsAllColumnsWithCounts(t *testing.T) {
	var drag listsync.Drag
	out := renderBoard(boardFixture(), boardSelection{}, &drag, 160, 20)

	for _, want := range []string{"APPLIED (2)", "HR SCREEN (0)", "OFFER (1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("board output missing %q", want)
		}
	}
	if !strings.Contains(out, "Acme") || !strings.Contains(out, "Globex") {
		t.Fatalf("board output missing cards")
	}
}

func TestRenderBoardMarksDraggedCard(t *testing.T) {
	var drag listsync.Drag
	drag.Start(1)
	drag.Enter(model.StatusOffer)

	out := renderBoard(boardFixture(), boardSelection{ItemID: 1}, &drag, 160, 20)
	if !strings.Contains(out, "◆") {
		t.Fatalf("dragged card not marked")
	}
}

func TestRenderBoardSurvivesTinyViewport(t *testing.T) {
	var drag listsync.Drag
	out := renderBoard(boardFixture(), boardSelection{}, &drag, 20, 4)
	if out == "" {
		t.Fatalf("tiny viewport produced no output")
	}
	for _, ln := range strings.Split(out, "\n") {
		if ln == "" {
			t.Fatalf("normalized pane emitted an empty line")
		}
	}
}

func TestClampBoardSelectionTracksRecordAcrossRebucketing(t *testing.T) {
	cols := boardFixture()
	sel := clampBoardSelection(cols, boardSelection{ItemID: 3})
	if got, ok := selectedBoardItem(cols, sel); !ok || got.ID != 3 {
		t.Fatalf("selection did not follow record id, got %+v", got)
	}

	// Record moves to another column; the selection follows the id.
	moved := listsync.Group([]model.Application{
		{ID: 1, Company: "Acme", RoleTitle: "Backend Engineer", Status: model.StatusApplied},
		{ID: 3, Company: "Initech", RoleTitle: "Frontend Engineer", Status: model.StatusInterview},
	})
	sel = clampBoardSelection(moved, sel)
	if got, ok := selectedBoardItem(moved, sel); !ok || got.ID != 3 {
		t.Fatalf("selection lost after rebucketing, got %+v", got)
	}
}

func TestUnknownStatusLandsInFirstColumn(t *testing.T) {
	cols := listsync.Group([]model.Application{
		{ID: 9, Company: "Mystery", RoleTitle: "Agent", Status: model.Status("GHOSTED")},
	})
	if len(cols[0].Items) != 1 || cols[0].Items[0].ID != 9 {
		t.Fatalf("unrecognized status not bucketed into the first column")
	}
}
