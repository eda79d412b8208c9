// Package session owns the single deck being edited by a server process:
// the editor, its persistence, its event log and its live subscribers.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/peterkuimelis/deckbuilder/internal/card"
	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/deck"
	"github.com/peterkuimelis/deckbuilder/internal/log"
	"github.com/peterkuimelis/deckbuilder/internal/store"
	"github.com/peterkuimelis/deckbuilder/internal/ydk"
)

var (
	ErrUnknownPassword = errors.New("unknown card password")
	ErrBadAmount       = errors.New("amount must be between 1 and 255")
	ErrNoStore         = errors.New("no deck store configured")
)

// subscriberBuffer is how many pushes a slow subscriber may lag behind
// before messages to it are dropped.
const subscriberBuffer = 16

// Options configures a Session.
type Options struct {
	Catalog *catalog.Data
	Store   *store.Store    // nil keeps the deck in memory only
	Key     string          // store key of the edited deck
	Events  log.EventLogger // defaults to a MemoryLogger
	Logger  *charmlog.Logger
}

// Session serializes all access to one editor.
type Session struct {
	mu      sync.Mutex
	cat     *catalog.Data
	store   *store.Store
	key     string
	editor  *deck.Editor
	events  log.EventLogger
	logger  *charmlog.Logger
	subs    map[uuid.UUID]chan ServerMessage
	pending []log.DeckEvent
}

// Open restores the deck stored under opts.Key, or starts empty.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, errors.New("session: catalog is required")
	}
	s := &Session{
		cat:    opts.Catalog,
		store:  opts.Store,
		key:    opts.Key,
		events: opts.Events,
		logger: opts.Logger,
		subs:   make(map[uuid.UUID]chan ServerMessage),
	}
	if s.events == nil {
		s.events = log.NewMemoryLogger()
	}
	if s.logger == nil {
		s.logger = charmlog.New(io.Discard)
	}

	editor := deck.NewEditor(nil)
	if s.store != nil {
		restored, ok, err := s.store.LoadEditor(ctx, s.key, s.cat)
		if err != nil {
			return nil, fmt.Errorf("load deck: %w", err)
		}
		if !ok {
			s.logger.Warn("no usable saved deck, starting empty", "key", s.key)
		}
		editor = restored
		s.record(log.NewLoadEvent(s.key, ok))
	}
	editor.OnApply(s.onApply)
	s.editor = editor
	s.pending = nil
	return s, nil
}

// Catalog returns the card catalog the session resolves against.
func (s *Session) Catalog() *catalog.Data {
	return s.cat
}

// --- Editing ---

// Increment adds copies of the card with the given password and returns how
// many were added.
func (s *Session) Increment(ctx context.Context, password uint32, part deck.PartType, amount int) (uint8, error) {
	return s.edit(ctx, password, part, amount, (*deck.Editor).Increment)
}

// Decrement removes copies of the card with the given password and returns
// how many were removed.
func (s *Session) Decrement(ctx context.Context, password uint32, part deck.PartType, amount int) (uint8, error) {
	return s.edit(ctx, password, part, amount, (*deck.Editor).Decrement)
}

func (s *Session) edit(ctx context.Context, password uint32, part deck.PartType, amount int,
	op func(*deck.Editor, card.ID, deck.PartType, uint8) uint8) (uint8, error) {
	if amount < 1 || amount > math.MaxUint8 {
		return 0, ErrBadAmount
	}
	if !part.Valid() {
		return 0, fmt.Errorf("invalid part %d", part)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.cat.IDForPassword(card.Password(password))
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownPassword, password)
	}
	applied := op(s.editor, id, part, uint8(amount))
	if applied == 0 {
		return 0, nil
	}
	s.commit(ctx)
	return applied, nil
}

// Undo reverts the newest edit. It returns false when there is none.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editor.Undo() {
		return false, nil
	}
	s.commit(ctx)
	return true, nil
}

// Redo reapplies the oldest undone edit. It returns false when there is none.
func (s *Session) Redo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editor.Redo() {
		return false, nil
	}
	s.commit(ctx)
	return true, nil
}

// Reset replaces the deck with an empty one and clears the history.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Load(&deck.Deck{})
	s.record(log.NewResetEvent())
	s.commit(ctx)
	return nil
}

// ImportYDK replaces the deck with the YDK text. On failure the deck is left
// untouched and the error names the cause.
func (s *Session) ImportYDK(ctx context.Context, text, source string) error {
	d, err := ydk.Load(text, s.cat)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Load(d)
	s.record(log.NewImportEvent(source, d.Total(deck.Main, s.cat), d.Total(deck.Extra, s.cat), d.Total(deck.SidePart, s.cat)))
	s.commit(ctx)
	return nil
}

// ExportYDK returns the deck as YDK text.
func (s *Session) ExportYDK() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.editor.Deck()
	text, err := ydk.Format(d, s.cat)
	if err != nil {
		return "", err
	}
	s.record(log.NewExportEvent(ydk.DefaultFilename, d.Total(deck.Main, s.cat), d.Total(deck.Extra, s.cat), d.Total(deck.SidePart, s.cat)))
	s.flush()
	return text, nil
}

// Encoded returns the compact text encoding of the deck and its history.
func (s *Session) Encoded() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Encode(s.cat)
}

// View renders the current deck.
func (s *Session) View() *DeckView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildDeckView(s.editor, s.cat)
}

// Search returns catalog cards matching f, at most limit of them.
func (s *Session) Search(f catalog.Filter, limit int) []CardView {
	result := []CardView{}
	for _, id := range s.cat.Search(f, limit) {
		c, _ := s.cat.Card(id)
		result = append(result, newCardView(c))
	}
	return result
}

// Events returns up to n of the most recent events, oldest first. n <= 0
// returns all of them.
func (s *Session) Events(n int) []EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return eventViews(s.events.Tail(n))
}

// EventsOfType is Events restricted to one event type.
func (s *Session) EventsOfType(t log.EventType, n int) []EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	matching := s.events.EventsOfType(t)
	if n > 0 && n < len(matching) {
		matching = matching[len(matching)-n:]
	}
	return eventViews(matching)
}

// EventLog renders up to n of the most recent events as text lines.
func (s *Session) EventLog(n int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return log.FormatAll(s.events.Tail(n))
}

func eventViews(events []log.DeckEvent) []EventView {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, newEventView(e))
	}
	return views
}

// Handle applies a websocket command.
func (s *Session) Handle(ctx context.Context, msg ClientMessage) error {
	switch msg.Type {
	case "increment", "decrement":
		part, err := deck.ParsePartType(msg.Part)
		if err != nil {
			return err
		}
		amount := msg.Amount
		if amount == 0 {
			amount = 1
		}
		if msg.Type == "increment" {
			_, err = s.Increment(ctx, msg.Password, part, amount)
		} else {
			_, err = s.Decrement(ctx, msg.Password, part, amount)
		}
		return err
	case "undo":
		_, err := s.Undo(ctx)
		return err
	case "redo":
		_, err := s.Redo(ctx)
		return err
	case "new":
		return s.Reset(ctx)
	default:
		return fmt.Errorf("unknown command %q", msg.Type)
	}
}

// --- Named snapshots ---

// SaveAs copies the deck and its history to another store key.
func (s *Session) SaveAs(ctx context.Context, key string) error {
	if s.store == nil {
		return ErrNoStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.store.SaveEditor(ctx, key, s.editor, s.cat)
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	s.record(log.NewSaveEvent(key, n))
	s.flush()
	return nil
}

// LoadFrom replaces the deck with the one saved under key. It returns false
// and leaves the deck alone when key holds nothing usable.
func (s *Session) LoadFrom(ctx context.Context, key string) (bool, error) {
	if s.store == nil {
		return false, ErrNoStore
	}
	restored, ok, err := s.store.LoadEditor(ctx, key, s.cat)
	if err != nil {
		return false, fmt.Errorf("load %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	restored.OnApply(s.onApply)
	s.editor = restored
	s.record(log.NewLoadEvent(key, true))
	s.commit(ctx)
	return true, nil
}

// Saved lists the store keys holding decks, newest first.
func (s *Session) Saved(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.Keys(ctx)
}

// --- Subscribers ---

// Subscribe registers a listener for deck and event pushes. The returned
// channel is closed by Unsubscribe.
func (s *Session) Subscribe() (uuid.UUID, <-chan ServerMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	ch := make(chan ServerMessage, subscriberBuffer)
	s.subs[id] = ch
	s.logger.Debug("subscriber added", "id", id, "total", len(s.subs))
	return id, ch
}

// Unsubscribe removes the listener and closes its channel.
func (s *Session) Unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
		s.logger.Debug("subscriber removed", "id", id, "total", len(s.subs))
	}
}

// --- Internals (mu held) ---

func (s *Session) onApply(c deck.Change) {
	m := c.Message
	name := s.cardName(m.ID)
	part := m.Part.String()
	amount := int(m.Amount)
	added := m.Action == deck.Inc

	var ev log.DeckEvent
	switch c.Cause {
	case deck.CauseUndo:
		ev = log.NewUndoEvent(name, part, amount, added)
	case deck.CauseRedo:
		ev = log.NewRedoEvent(name, part, amount, added)
	default:
		if added {
			ev = log.NewIncrementEvent(name, part, amount)
		} else {
			ev = log.NewDecrementEvent(name, part, amount)
		}
	}
	s.record(ev)
}

func (s *Session) cardName(id card.ID) string {
	if c, ok := s.cat.Card(id); ok {
		return c.Name
	}
	return fmt.Sprintf("card #%d", id)
}

func (s *Session) record(ev log.DeckEvent) {
	s.events.Log(ev)
	all := s.events.Events()
	s.pending = append(s.pending, all[len(all)-1])
}

// commit persists the editor and pushes the new state to subscribers. The
// in-memory editor stays authoritative: a failed save is logged and the next
// successful commit writes the whole state again.
func (s *Session) commit(ctx context.Context) {
	if s.store != nil {
		n, err := s.store.SaveEditor(ctx, s.key, s.editor, s.cat)
		if err != nil {
			s.logger.Warn("deck not saved, keeping the change in memory", "key", s.key, "err", err)
		} else {
			s.logger.Debug("saved deck", "key", s.key, "bytes", n)
		}
	}
	s.flush()
	if len(s.subs) > 0 {
		s.broadcast(ServerMessage{Type: "deck", Deck: BuildDeckView(s.editor, s.cat)})
	}
}

// flush pushes pending events to subscribers.
func (s *Session) flush() {
	for _, ev := range s.pending {
		view := newEventView(ev)
		s.broadcast(ServerMessage{Type: "event", Event: &view})
	}
	s.pending = nil
}

func (s *Session) broadcast(msg ServerMessage) {
	for id, ch := range s.subs {
		select {
		case ch <- msg:
		default:
			s.logger.Warn("subscriber lagging, dropping message", "id", id, "type", msg.Type)
		}
	}
}
