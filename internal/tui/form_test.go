package tui

import (
	"testing"

	"jatrack/internal/model"
)

func TestEditFormRoundTripsTheWholeRecord(t *testing.T) {
	orig := model.Application{
		ID:           12,
		Company:      "Acme",
		RoleTitle:    "Backend Engineer",
		Status:       model.StatusTechTest,
		AppliedDate:  "2025-03-01",
		ContactEmail: "jobs@acme.test",
		JobURL:       "https://acme.test/careers/12",
		Notes:        "Take-home due Friday.",
	}

	f := newEditForm(orig)
	got := f.Application()
	if got != orig {
		t.Fatalf("form altered the record:\n got %+v\nwant %+v", got, orig)
	}
}

func TestNewFormDefaultsToAppliedToday(t *testing.T) {
	f := newForm()
	a := f.Application()
	if a.Status != model.StatusApplied {
		t.Fatalf("default status = %v, want APPLIED", a.Status)
	}
	if a.AppliedDate == "" {
		t.Fatalf("applied date not prefilled")
	}
	if a.ID != 0 {
		t.Fatalf("new form carries an id")
	}
}

func TestStatusCycleWrapsBothDirections(t *testing.T) {
	f := newForm()
	n := len(model.Statuses())

	f.cycleStatus(-1)
	if f.Application().Status != model.Statuses()[n-1] {
		t.Fatalf("cycling back from the first status did not wrap")
	}
	f.cycleStatus(1)
	if f.Application().Status != model.StatusApplied {
		t.Fatalf("cycling forward did not return to the first status")
	}
}

func TestFieldFocusWraps(t *testing.T) {
	f := newForm()
	for i := 0; i < formFieldCount; i++ {
		f.nextField()
	}
	if f.focus != formFieldCompany {
		t.Fatalf("focus = %d after a full cycle, want %d", f.focus, formFieldCompany)
	}
	f.prevField()
	if f.focus != formFieldNotes {
		t.Fatalf("focus = %d after prev from first, want %d", f.focus, formFieldNotes)
	}
}
