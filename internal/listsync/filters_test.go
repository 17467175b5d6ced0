package listsync

import (
	"testing"
	"time"
)

func TestFilters_DebouncePromotesOnlyAfterQuietPeriod(t *testing.T) {
	f := NewFilters()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	f.SetRawText("a", t0)
	f.Flush(t0.Add(100 * time.Millisecond))
	if f.Text() != "" {
		t.Fatalf("text promoted before quiet period: %q", f.Text())
	}
	if f.TakeDirty() {
		t.Fatalf("filters dirty before debounce fired")
	}

	f.Flush(t0.Add(DebounceQuiet))
	if f.Text() != "a" {
		t.Fatalf("text not promoted after quiet period: %q", f.Text())
	}
	if !f.TakeDirty() {
		t.Fatalf("expected dirty after promotion")
	}
}

func TestFilters_EachKeystrokeRestartsTimer(t *testing.T) {
	f := NewFilters()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	f.SetRawText("a", t0)
	t1 := t0.Add(300 * time.Millisecond)
	f.SetRawText("ac", t1)

	// The original deadline has passed but the second edit restarted it.
	f.Flush(t0.Add(DebounceQuiet))
	if f.Text() != "" {
		t.Fatalf("promotion used stale deadline, got %q", f.Text())
	}

	f.Flush(t1.Add(DebounceQuiet))
	if f.Text() != "ac" {
		t.Fatalf("expected last typed value, got %q", f.Text())
	}
}

func TestFilters_ChangesWithinOneWindowCoalesceToOneFetch(t *testing.T) {
	f := NewFilters()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Several inputs change before anything is consumed.
	f.SetRawText("go", t0)
	f.SetStatus("OFFER")
	f.ToggleSort()
	f.SetSize(20)
	f.Flush(t0.Add(DebounceQuiet))

	fetches := 0
	if f.TakeDirty() {
		fetches++
	}
	if f.TakeDirty() {
		fetches++
	}
	if fetches != 1 {
		t.Fatalf("expected exactly one coalesced fetch, got %d", fetches)
	}

	// And the last value of each input won.
	if f.Text() != "go" || f.Status() != "OFFER" || f.Sort() != "appliedDate,asc" || f.Size() != 20 {
		t.Fatalf("unexpected exposed tuple: %q %q %q %d", f.Text(), f.Status(), f.Sort(), f.Size())
	}
}

func TestFilters_TypingBackToPromotedValueIsNotDirty(t *testing.T) {
	f := NewFilters()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	f.SetRawText("x", t0)
	f.Flush(t0.Add(DebounceQuiet))
	f.TakeDirty()

	f.SetRawText("xy", t0.Add(time.Second))
	f.SetRawText("x", t0.Add(2*time.Second))
	f.Flush(t0.Add(3 * time.Second))
	if f.TakeDirty() {
		t.Fatalf("unchanged debounced text must not owe a fetch")
	}
}

func TestFilters_DisallowedSizeIgnored(t *testing.T) {
	f := NewFilters()
	f.SetSize(17)
	if f.Size() != DefaultPageSize {
		t.Fatalf("disallowed size applied: %d", f.Size())
	}
	if f.TakeDirty() {
		t.Fatalf("ignored size change must not dirty filters")
	}
}
