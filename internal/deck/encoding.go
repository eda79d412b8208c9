package deck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterkuimelis/deckbuilder/internal/card"
	"github.com/peterkuimelis/deckbuilder/internal/catalog"
)

// The text encoding stores cards by password so a saved deck survives a
// catalog rebuild that renumbers ids.
//
//	entry   = password ":" playing ":" side
//	message = ("+" | "-") ("p" | "s") password ":" amount
//	history = offset ";" [message {"," message}]
//	editor  = [entry {"," entry}] " " history
//
// Decoders return false on any malformed input and never return partial
// state.

// ErrUnknownCard is returned by encoders when the catalog cannot resolve an
// id held by the deck.
var ErrUnknownCard = errors.New("card not in catalog")

func password(cat catalog.Catalog, id card.ID) (card.Password, error) {
	c, ok := cat.Card(id)
	if !ok {
		return 0, fmt.Errorf("%w: id %d", ErrUnknownCard, id)
	}
	return c.Password, nil
}

func parsePassword(cat catalog.Catalog, s string) (card.ID, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return cat.IDForPassword(card.Password(n))
}

func parseCount(s string) (uint8, bool) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

// --- Entry ---

// Encode appends the entry to sb.
func (e Entry) Encode(sb *strings.Builder, cat catalog.Catalog) error {
	pw, err := password(cat, e.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(sb, "%d:%d:%d", pw, e.counts[Playing], e.counts[Side])
	return nil
}

// DecodeEntry parses a single entry. Entries with both counts zero are
// rejected since a deck never stores them.
func DecodeEntry(text string, cat catalog.Catalog) (Entry, bool) {
	fields := strings.Split(text, ":")
	if len(fields) != 3 {
		return Entry{}, false
	}
	id, ok := parsePassword(cat, fields[0])
	if !ok {
		return Entry{}, false
	}
	playing, ok := parseCount(fields[1])
	if !ok {
		return Entry{}, false
	}
	side, ok := parseCount(fields[2])
	if !ok {
		return Entry{}, false
	}
	e := NewEntry(id, playing, side)
	if e.empty() {
		return Entry{}, false
	}
	return e, true
}

// --- Message ---

// Encode appends the message to sb.
func (m Message) Encode(sb *strings.Builder, cat catalog.Catalog) error {
	pw, err := password(cat, m.ID)
	if err != nil {
		return err
	}
	switch m.Action {
	case Inc:
		sb.WriteByte('+')
	case Dec:
		sb.WriteByte('-')
	default:
		return fmt.Errorf("encode message: invalid action %d", m.Action)
	}
	switch m.Part {
	case Playing:
		sb.WriteByte('p')
	case Side:
		sb.WriteByte('s')
	default:
		return fmt.Errorf("encode message: invalid part %d", m.Part)
	}
	fmt.Fprintf(sb, "%d:%d", pw, m.Amount)
	return nil
}

// DecodeMessage parses a single message.
func DecodeMessage(text string, cat catalog.Catalog) (Message, bool) {
	if len(text) < 2 {
		return Message{}, false
	}

	var m Message
	switch text[0] {
	case '+':
		m.Action = Inc
	case '-':
		m.Action = Dec
	default:
		return Message{}, false
	}
	switch text[1] {
	case 'p':
		m.Part = Playing
	case 's':
		m.Part = Side
	default:
		return Message{}, false
	}

	pw, amount, found := strings.Cut(text[2:], ":")
	if !found {
		return Message{}, false
	}
	id, ok := parsePassword(cat, pw)
	if !ok {
		return Message{}, false
	}
	n, ok := parseCount(amount)
	if !ok {
		return Message{}, false
	}
	m.ID = id
	m.Amount = n
	return m, true
}

// --- UndoRedo ---

// Encode appends the history to sb, writing each action with encode.
func (u *UndoRedo[T]) Encode(sb *strings.Builder, encode func(*strings.Builder, T) error) error {
	sb.WriteString(strconv.Itoa(u.offset))
	sb.WriteByte(';')
	for i, action := range u.entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := encode(sb, action); err != nil {
			return err
		}
	}
	return nil
}

// DecodeUndoRedo parses a history, decoding each action with decode.
func DecodeUndoRedo[T Invertible[T]](text string, decode func(string) (T, bool)) (*UndoRedo[T], bool) {
	offsetText, list, found := strings.Cut(text, ";")
	if !found {
		return nil, false
	}
	offset, err := strconv.ParseUint(offsetText, 10, 31)
	if err != nil {
		return nil, false
	}

	var entries []T
	if list != "" {
		for _, item := range strings.Split(list, ",") {
			action, ok := decode(item)
			if !ok {
				return nil, false
			}
			entries = append(entries, action)
		}
	}
	return NewUndoRedo(entries, int(offset))
}

// --- Deck ---

// Encode appends the comma-joined entries to sb.
func (d *Deck) Encode(sb *strings.Builder, cat catalog.Catalog) error {
	for i, e := range d.entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := e.Encode(sb, cat); err != nil {
			return err
		}
	}
	return nil
}

// DecodeDeck parses comma-joined entries. Two entries that resolve to the
// same card are rejected.
func DecodeDeck(text string, cat catalog.Catalog) (*Deck, bool) {
	if text == "" {
		return &Deck{}, true
	}
	items := strings.Split(text, ",")
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		e, ok := DecodeEntry(item, cat)
		if !ok {
			return nil, false
		}
		entries = append(entries, e)
	}
	d, err := New(entries)
	if err != nil {
		return nil, false
	}
	return d, true
}

// --- Editor ---

// Encode returns the deck followed by its history. It only fails if the deck
// holds a card the catalog does not know.
func (e *Editor) Encode(cat catalog.Catalog) (string, error) {
	var sb strings.Builder
	if err := e.deck.Encode(&sb, cat); err != nil {
		return "", err
	}
	sb.WriteByte(' ')
	err := e.history.Encode(&sb, func(sb *strings.Builder, m Message) error {
		return m.Encode(sb, cat)
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// DecodeEditor parses an encoded editor. A history that does not replay
// exactly against the decoded deck is rejected.
func DecodeEditor(text string, cat catalog.Catalog) (*Editor, bool) {
	deckText, historyText, found := strings.Cut(text, " ")
	if !found {
		return nil, false
	}
	d, ok := DecodeDeck(deckText, cat)
	if !ok {
		return nil, false
	}
	history, ok := DecodeUndoRedo(historyText, func(s string) (Message, bool) {
		return DecodeMessage(s, cat)
	})
	if !ok {
		return nil, false
	}
	if !consistent(d, history) {
		return nil, false
	}
	return &Editor{deck: *d, history: *history}, true
}
