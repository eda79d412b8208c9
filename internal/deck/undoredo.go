package deck

import (
	"slices"
)

// Invertible is implemented by actions that can be reversed.
type Invertible[T any] interface {
	comparable
	Invert() T
}

// UndoRedo is a linear action history with a cursor. Entries are stored in
// the order they were performed; offset counts how many of the newest ones
// are currently undone.
type UndoRedo[T Invertible[T]] struct {
	entries []T
	offset  int
}

// NewUndoRedo returns a history holding entries with the given offset. It
// returns false when offset is outside [0, len(entries)].
func NewUndoRedo[T Invertible[T]](entries []T, offset int) (*UndoRedo[T], bool) {
	if offset < 0 || offset > len(entries) {
		return nil, false
	}
	return &UndoRedo[T]{entries: slices.Clone(entries), offset: offset}, true
}

// PushAction records a newly performed action. Any undone actions are
// discarded first.
func (u *UndoRedo[T]) PushAction(action T) {
	u.entries = u.entries[:len(u.entries)-u.offset]
	u.offset = 0
	u.entries = append(u.entries, action)
}

// Undo returns the inverse of the newest active action and moves the cursor
// back. It returns false when nothing is left to undo.
func (u *UndoRedo[T]) Undo() (T, bool) {
	if !u.CanUndo() {
		var zero T
		return zero, false
	}
	action := u.entries[len(u.entries)-1-u.offset]
	u.offset++
	return action.Invert(), true
}

// Redo returns the oldest undone action and moves the cursor forward. It
// returns false when nothing is left to redo.
func (u *UndoRedo[T]) Redo() (T, bool) {
	if !u.CanRedo() {
		var zero T
		return zero, false
	}
	u.offset--
	return u.entries[len(u.entries)-1-u.offset], true
}

func (u *UndoRedo[T]) CanUndo() bool { return u.offset < len(u.entries) }
func (u *UndoRedo[T]) CanRedo() bool { return u.offset > 0 }

// Len returns the number of recorded actions, undone ones included.
func (u *UndoRedo[T]) Len() int { return len(u.entries) }

// Offset returns the number of undone actions.
func (u *UndoRedo[T]) Offset() int { return u.offset }

// Entries returns a copy of the recorded actions, oldest first.
func (u *UndoRedo[T]) Entries() []T {
	return slices.Clone(u.entries)
}

// Active returns the actions that are currently applied, oldest first.
func (u *UndoRedo[T]) Active() []T {
	return slices.Clone(u.entries[:len(u.entries)-u.offset])
}

// Reset discards every recorded action.
func (u *UndoRedo[T]) Reset() {
	u.entries = nil
	u.offset = 0
}

// Equal reports whether both histories hold the same actions and cursor.
func (u *UndoRedo[T]) Equal(other *UndoRedo[T]) bool {
	return u.offset == other.offset && slices.Equal(u.entries, other.entries)
}
