package deck

import (
	"fmt"

	"github.com/peterkuimelis/deckbuilder/internal/card"
)

// Cause tells an observer why the deck changed.
type Cause int

const (
	CauseEdit Cause = iota
	CauseUndo
	CauseRedo
)

func (c Cause) String() string {
	switch c {
	case CauseEdit:
		return "Edit"
	case CauseUndo:
		return "Undo"
	case CauseRedo:
		return "Redo"
	default:
		return "Unknown"
	}
}

// Change is passed to the OnApply callback after every applied message.
type Change struct {
	Cause   Cause
	Message Message
}

// Editor pairs a deck with the history of edits made to it. Every change
// goes through the editor so the history always matches the deck.
type Editor struct {
	deck    Deck
	history UndoRedo[Message]
	onApply func(Change)
}

// NewEditor returns an editor over a copy of d with an empty history. A nil
// deck starts empty.
func NewEditor(d *Deck) *Editor {
	e := &Editor{}
	if d != nil {
		e.deck = *d.Clone()
	}
	return e
}

// OnApply registers fn to be called after every change to the deck. It
// replaces any previous callback; nil disables notifications.
func (e *Editor) OnApply(fn func(Change)) {
	e.onApply = fn
}

func (e *Editor) notify(cause Cause, m Message) {
	if e.onApply != nil && m.Amount > 0 {
		e.onApply(Change{Cause: cause, Message: m})
	}
}

// Increment adds up to amount copies and records the applied amount.
func (e *Editor) Increment(id card.ID, part PartType, amount uint8) uint8 {
	return e.edit(Message{Action: Inc, ID: id, Part: part, Amount: amount})
}

// Decrement removes up to amount copies and records the applied amount.
func (e *Editor) Decrement(id card.ID, part PartType, amount uint8) uint8 {
	return e.edit(Message{Action: Dec, ID: id, Part: part, Amount: amount})
}

func (e *Editor) edit(m Message) uint8 {
	m.Amount = m.apply(&e.deck)
	if m.Amount == 0 {
		return 0
	}
	e.history.PushAction(m)
	e.notify(CauseEdit, m)
	return m.Amount
}

// Undo reverts the newest active edit. It returns false when there is
// nothing to undo.
func (e *Editor) Undo() bool {
	m, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.replay(CauseUndo, m)
	return true
}

// Redo reapplies the oldest undone edit. It returns false when there is
// nothing to redo.
func (e *Editor) Redo() bool {
	m, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.replay(CauseRedo, m)
	return true
}

func (e *Editor) replay(cause Cause, m Message) {
	if applied := m.apply(&e.deck); applied != m.Amount {
		panic(fmt.Sprintf("deck: %s of %s applied %d, history out of sync", cause, m, applied))
	}
	e.notify(cause, m)
}

// ResetHistory forgets all edits while keeping the deck.
func (e *Editor) ResetHistory() {
	e.history.Reset()
}

// Load replaces the deck with a copy of d and starts a fresh history. The
// OnApply callback is kept and not invoked.
func (e *Editor) Load(d *Deck) {
	e.deck = *d.Clone()
	e.ResetHistory()
}

// Deck returns a copy of the current deck.
func (e *Editor) Deck() *Deck {
	return e.deck.Clone()
}

// Count returns the number of copies of id in part.
func (e *Editor) Count(id card.ID, part PartType) uint8 {
	return e.deck.Count(id, part)
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// History returns a copy of the edit history.
func (e *Editor) History() *UndoRedo[Message] {
	h, _ := NewUndoRedo(e.history.entries, e.history.offset)
	return h
}

// Equal compares deck and history; callbacks are ignored.
func (e *Editor) Equal(other *Editor) bool {
	return e.deck.Equal(&other.deck) && e.history.Equal(&other.history)
}

// consistent reports whether the history can be fully undone and redone
// against d with every step applying its exact amount.
func consistent(d *Deck, h *UndoRedo[Message]) bool {
	base := d.Clone()
	active := h.Active()
	for i := len(active) - 1; i >= 0; i-- {
		inv := active[i].Invert()
		if inv.apply(base) != inv.Amount {
			return false
		}
	}
	for _, m := range h.entries {
		if m.Amount == 0 || m.apply(base) != m.Amount {
			return false
		}
	}
	return true
}
