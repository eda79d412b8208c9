package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging deck events.
type EventLogger interface {
	Log(event DeckEvent)
	Events() []DeckEvent
	EventsOfType(t EventType) []DeckEvent
	Tail(n int) []DeckEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []DeckEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event DeckEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []DeckEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []DeckEvent {
	var result []DeckEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() DeckEvent {
	if len(l.events) == 0 {
		return DeckEvent{}
	}
	return l.events[len(l.events)-1]
}

// Tail returns up to n of the most recent events, oldest first. n <= 0
// returns every event.
func (l *MemoryLogger) Tail(n int) []DeckEvent {
	if n <= 0 || n >= len(l.events) {
		return l.events
	}
	return l.events[len(l.events)-n:]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event DeckEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(l.LastEvent()))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e DeckEvent) string {
	return fmt.Sprintf("#%-3d %-9s| %s", e.Seq, e.Type, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []DeckEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func copies(n int) string {
	if n == 1 {
		return "1 copy"
	}
	return fmt.Sprintf("%d copies", n)
}

func NewIncrementEvent(cardName, part string, amount int) DeckEvent {
	return DeckEvent{
		Type:    EventIncrement,
		Card:    cardName,
		Part:    part,
		Amount:  amount,
		Details: fmt.Sprintf("+ %s of %s (%s)", copies(amount), cardName, part),
	}
}

func NewDecrementEvent(cardName, part string, amount int) DeckEvent {
	return DeckEvent{
		Type:    EventDecrement,
		Card:    cardName,
		Part:    part,
		Amount:  amount,
		Details: fmt.Sprintf("- %s of %s (%s)", copies(amount), cardName, part),
	}
}

// NewUndoEvent describes an undo; added is true when the undo put copies
// back into the deck.
func NewUndoEvent(cardName, part string, amount int, added bool) DeckEvent {
	sign := "-"
	if added {
		sign = "+"
	}
	return DeckEvent{
		Type:    EventUndo,
		Card:    cardName,
		Part:    part,
		Amount:  amount,
		Details: fmt.Sprintf("undo: %s %s of %s (%s)", sign, copies(amount), cardName, part),
	}
}

// NewRedoEvent describes a redo; added is true when the redo put copies
// back into the deck.
func NewRedoEvent(cardName, part string, amount int, added bool) DeckEvent {
	sign := "-"
	if added {
		sign = "+"
	}
	return DeckEvent{
		Type:    EventRedo,
		Card:    cardName,
		Part:    part,
		Amount:  amount,
		Details: fmt.Sprintf("redo: %s %s of %s (%s)", sign, copies(amount), cardName, part),
	}
}

func NewImportEvent(source string, main, extra, side int) DeckEvent {
	return DeckEvent{
		Type:    EventImport,
		Details: fmt.Sprintf("imported %s (main %d, extra %d, side %d)", source, main, extra, side),
	}
}

func NewExportEvent(target string, main, extra, side int) DeckEvent {
	return DeckEvent{
		Type:    EventExport,
		Details: fmt.Sprintf("exported %s (main %d, extra %d, side %d)", target, main, extra, side),
	}
}

func NewResetEvent() DeckEvent {
	return DeckEvent{
		Type:    EventReset,
		Details: "new empty deck",
	}
}

func NewLoadEvent(key string, restored bool) DeckEvent {
	details := fmt.Sprintf("restored %q", key)
	if !restored {
		details = fmt.Sprintf("no usable state under %q, starting empty", key)
	}
	return DeckEvent{
		Type:    EventLoad,
		Details: details,
	}
}

func NewSaveEvent(key string, size int) DeckEvent {
	return DeckEvent{
		Type:    EventSave,
		Details: fmt.Sprintf("saved %q (%d bytes)", key, size),
	}
}
