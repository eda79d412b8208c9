// Package catalog resolves card identifiers and passwords to card records.
//
// A catalog is loaded once and never mutated afterwards, so a *Data may be
// shared freely between goroutines.
package catalog

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/peterkuimelis/deckbuilder/internal/card"
)

// Catalog is the lookup capability the deck core needs.
type Catalog interface {
	// Card returns the record for id, or false if the id is not in the catalog.
	Card(id card.ID) (*card.Card, bool)
	// IDForPassword resolves any password of a card, including alternate
	// printings, to its canonical id.
	IDForPassword(password card.Password) (card.ID, bool)
}

var (
	ErrDuplicatePassword = errors.New("duplicate password")
	ErrTooManyCards      = errors.New("too many cards")
)

// Source is one card as it enters the catalog: the record itself (whose
// Password is the primary one) plus the passwords of alternate printings.
type Source struct {
	Card    card.Card
	Aliases []card.Password
}

// Data is the in-memory catalog. Card ids are indexes into the card list.
type Data struct {
	cards     []card.Card
	passwords map[card.Password]card.ID
	aliases   map[card.ID][]card.Password // alternate passwords, ascending
}

// New builds a catalog from sources. Ids are assigned in source order.
func New(sources []Source) (*Data, error) {
	if uint64(len(sources)) > math.MaxUint32 {
		return nil, ErrTooManyCards
	}

	d := &Data{
		cards:     make([]card.Card, 0, len(sources)),
		passwords: make(map[card.Password]card.ID, len(sources)),
	}
	for i, src := range sources {
		id := card.ID(i)
		d.cards = append(d.cards, src.Card)
		if err := d.addPassword(src.Card.Password, id); err != nil {
			return nil, err
		}
		for _, alias := range src.Aliases {
			if alias == src.Card.Password {
				continue
			}
			if err := d.addPassword(alias, id); err != nil {
				return nil, err
			}
		}
	}
	d.indexAliases()
	return d, nil
}

// indexAliases groups the non-primary passwords by card.
func (d *Data) indexAliases() {
	d.aliases = make(map[card.ID][]card.Password)
	for password, id := range d.passwords {
		if password != d.cards[id].Password {
			d.aliases[id] = append(d.aliases[id], password)
		}
	}
	for _, list := range d.aliases {
		slices.Sort(list)
	}
}

func (d *Data) addPassword(password card.Password, id card.ID) error {
	if prev, ok := d.passwords[password]; ok {
		return fmt.Errorf("%w %d: %q and %q", ErrDuplicatePassword, password, d.cards[prev].Name, d.cards[id].Name)
	}
	d.passwords[password] = id
	return nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(sources []Source) *Data {
	d, err := New(sources)
	if err != nil {
		panic(err)
	}
	return d
}

// Card implements Catalog.
func (d *Data) Card(id card.ID) (*card.Card, bool) {
	if uint64(id) >= uint64(len(d.cards)) {
		return nil, false
	}
	return &d.cards[id], true
}

// IDForPassword implements Catalog.
func (d *Data) IDForPassword(password card.Password) (card.ID, bool) {
	id, ok := d.passwords[password]
	return id, ok
}

// Len returns the number of cards.
func (d *Data) Len() int {
	return len(d.cards)
}

// All iterates over every card in id order.
func (d *Data) All() iter.Seq2[card.ID, *card.Card] {
	return func(yield func(card.ID, *card.Card) bool) {
		for i := range d.cards {
			if !yield(card.ID(i), &d.cards[i]) {
				return
			}
		}
	}
}

// Aliases returns the alternate passwords of id in ascending order,
// excluding the primary one.
func (d *Data) Aliases(id card.ID) []card.Password {
	return slices.Clone(d.aliases[id])
}
