// Package deck implements the deck multiset, its undo/redo history and the
// compact text encoding used to persist both.
package deck

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/peterkuimelis/deckbuilder/internal/card"
	"github.com/peterkuimelis/deckbuilder/internal/catalog"
)

var ErrDuplicateEntry = errors.New("duplicate deck entry")

// Entry holds the two counters of one card.
type Entry struct {
	ID     card.ID
	counts [2]uint8
}

// NewEntry returns an entry with the given counts.
func NewEntry(id card.ID, playing, side uint8) Entry {
	return Entry{ID: id, counts: [2]uint8{playing, side}}
}

// Count returns the number of copies in part.
func (e Entry) Count(part PartType) uint8 {
	return e.counts[part]
}

func (e Entry) empty() bool {
	return e.counts[Playing] == 0 && e.counts[Side] == 0
}

// Deck is a sparse multiset of cards, sorted by id. The zero value is an
// empty deck. Entries whose counters are both zero are never stored.
type Deck struct {
	entries []Entry
}

// New builds a deck from entries in any order. Entries with both counts
// zero are dropped; repeated ids are rejected with ErrDuplicateEntry.
func New(entries []Entry) (*Deck, error) {
	sorted := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.empty() {
			sorted = append(sorted, e)
		}
	}
	slices.SortFunc(sorted, func(a, b Entry) int { return cmp.Compare(a.ID, b.ID) })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].ID == sorted[i-1].ID {
			return nil, fmt.Errorf("%w: card %d", ErrDuplicateEntry, sorted[i].ID)
		}
	}
	return &Deck{entries: sorted}, nil
}

func (d *Deck) find(id card.ID) (int, bool) {
	return slices.BinarySearchFunc(d.entries, id, func(e Entry, id card.ID) int {
		return cmp.Compare(e.ID, id)
	})
}

// Increment adds amount copies of id to part, saturating at 255. It returns
// the number of copies actually added.
func (d *Deck) Increment(id card.ID, part PartType, amount uint8) uint8 {
	if amount == 0 {
		return 0
	}

	i, found := d.find(id)
	if !found {
		d.entries = slices.Insert(d.entries, i, Entry{ID: id})
	}

	count := &d.entries[i].counts[part]
	applied := min(amount, math.MaxUint8-*count)
	*count += applied
	return applied
}

// Decrement removes up to amount copies of id from part, clamping at zero.
// It returns the number of copies actually removed. An entry left with
// both counters at zero is removed.
func (d *Deck) Decrement(id card.ID, part PartType, amount uint8) uint8 {
	i, found := d.find(id)
	if !found {
		return 0
	}

	count := &d.entries[i].counts[part]
	applied := min(amount, *count)
	*count -= applied

	if d.entries[i].empty() {
		d.entries = slices.Delete(d.entries, i, i+1)
	}
	return applied
}

// Count returns the number of copies of id in part.
func (d *Deck) Count(id card.ID, part PartType) uint8 {
	i, found := d.find(id)
	if !found {
		return 0
	}
	return d.entries[i].counts[part]
}

// Len returns the number of distinct cards.
func (d *Deck) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the entries in ascending id order.
func (d *Deck) Entries() []Entry {
	return slices.Clone(d.entries)
}

// All iterates over the entries in ascending id order.
func (d *Deck) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range d.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Clone returns an independent copy of d.
func (d *Deck) Clone() *Deck {
	return &Deck{entries: slices.Clone(d.entries)}
}

// Equal reports whether both decks hold the same cards with the same counts.
func (d *Deck) Equal(other *Deck) bool {
	return slices.Equal(d.entries, other.entries)
}

// PartEntry is a card with its count in one DeckPart. Card is nil when the
// catalog does not know the id.
type PartEntry struct {
	ID    card.ID
	Card  *card.Card
	Count uint8
}

// ForPart returns the entries with a nonzero count in part's counter whose
// card the part can contain, in ascending id order.
func (d *Deck) ForPart(part DeckPart, cat catalog.Catalog) []PartEntry {
	var result []PartEntry
	for _, e := range d.entries {
		count := e.Count(part.PartType())
		if count == 0 {
			continue
		}
		c, ok := cat.Card(e.ID)
		if !ok {
			c = nil
		}
		if !part.CanContain(c) {
			continue
		}
		result = append(result, PartEntry{ID: e.ID, Card: c, Count: count})
	}
	return result
}

// Total returns the number of copies in part.
func (d *Deck) Total(part DeckPart, cat catalog.Catalog) int {
	total := 0
	for _, pe := range d.ForPart(part, cat) {
		total += int(pe.Count)
	}
	return total
}
