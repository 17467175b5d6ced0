package listsync

import "jatrack/internal/model"

// Column is one status bucket of the board.
type Column struct {
	Status model.Status
	Items  []model.Application
}

// Group partitions the full record set into one column per status, in
// pipeline order, preserving each record's relative fetch order within its
// bucket. A record with a missing or unrecognized status lands in the first
// column rather than disappearing.
func Group(items []model.Application) []Column {
	statuses := model.Statuses()
	cols := make([]Column, len(statuses))
	index := make(map[model.Status]int, len(statuses))
	for i, st := range statuses {
		cols[i] = Column{Status: st}
		index[st] = i
	}
	for _, a := range items {
		i, ok := index[a.Status]
		if !ok {
			i = 0
		}
		cols[i].Items = append(cols[i].Items, a)
	}
	return cols
}

// DragPhase is the state of a single drag interaction.
type DragPhase int

const (
	DragIdle DragPhase = iota
	DragDragging
	DragHover
)

// Drag is the board's drag-and-drop state machine. The dragged identifier is
// carried here, in the in-flight payload, never re-derived from rendered
// state, so a drop stays correct even if the source card re-rendered or moved
// since pickup.
type Drag struct {
	phase  DragPhase
	itemID int64
	hover  model.Status
}

func (d *Drag) Phase() DragPhase { return d.phase }

func (d *Drag) Active() bool { return d.phase != DragIdle }

// ItemID returns the dragged record id while a drag is active.
func (d *Drag) ItemID() (int64, bool) {
	if d.phase == DragIdle {
		return 0, false
	}
	return d.itemID, true
}

// Hover returns the column currently hovered, used only for visual
// affordance.
func (d *Drag) Hover() (model.Status, bool) {
	if d.phase != DragHover {
		return "", false
	}
	return d.hover, true
}

// Start begins a drag for the given record.
func (d *Drag) Start(id int64) {
	d.phase = DragDragging
	d.itemID = id
	d.hover = ""
}

// Enter marks the column under the drag. Ignored when idle.
func (d *Drag) Enter(col model.Status) {
	if d.phase == DragIdle {
		return
	}
	d.phase = DragHover
	d.hover = col
}

// Drop ends the interaction and yields the drop target. ok is false when
// nothing was being dragged or no column was hovered; either way the machine
// returns to idle.
func (d *Drag) Drop() (id int64, target model.Status, ok bool) {
	id, target = d.itemID, d.hover
	ok = d.phase == DragHover
	d.reset()
	return id, target, ok
}

// Cancel aborts the interaction; any drag end returns to idle regardless of
// outcome.
func (d *Drag) Cancel() { d.reset() }

func (d *Drag) reset() {
	d.phase = DragIdle
	d.itemID = 0
	d.hover = ""
}

// DropUpdate builds the whole-record update a drop implies: status set to the
// target column, every other field unchanged.
func DropUpdate(rec model.Application, target model.Status) model.Application {
	rec.Status = target
	return rec
}
