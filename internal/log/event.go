package log

import (
	"fmt"
	"strings"
)

// EventType enumerates all observable deck events.
type EventType int

const (
	EventIncrement EventType = iota
	EventDecrement
	EventUndo
	EventRedo
	EventImport
	EventExport
	EventReset // deck replaced by an empty one
	EventLoad  // editor restored from the store
	EventSave  // editor written to the store
)

func (e EventType) String() string {
	switch e {
	case EventIncrement:
		return "Increment"
	case EventDecrement:
		return "Decrement"
	case EventUndo:
		return "Undo"
	case EventRedo:
		return "Redo"
	case EventImport:
		return "Import"
	case EventExport:
		return "Export"
	case EventReset:
		return "Reset"
	case EventLoad:
		return "Load"
	case EventSave:
		return "Save"
	default:
		return "Unknown"
	}
}

// ParseEventType resolves an event type by its String form, ignoring case.
func ParseEventType(s string) (EventType, error) {
	for t := EventIncrement; t <= EventSave; t++ {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// DeckEvent represents a single observable change to the edited deck.
type DeckEvent struct {
	Seq     int       // monotonic sequence number
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Part    string    // "Playing" or "Side" (if applicable)
	Amount  int       // copies added or removed
	Details string    // human-readable detail string
}
