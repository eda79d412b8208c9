// Package ydk reads and writes the plain text deck lists used by most
// simulators: a "#main", "#extra" and "!side" header each followed by one
// card password per line.
package ydk

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/peterkuimelis/deckbuilder/internal/card"
	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/deck"
)

const (
	Extension       = ".ydk"
	MIMEType        = "text/ydk"
	DefaultFilename = "deck.ydk"
)

// ReadError wraps an I/O failure while reading YDK input.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("could not read input: %v", e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// UnknownIDError is returned when a well-formed id names no catalog card.
type UnknownIDError struct {
	ID uint64
}

func (e *UnknownIDError) Error() string { return fmt.Sprintf("unknown card %d", e.ID) }

// Load parses text and resolves every id through the catalog. The first id
// the catalog does not know aborts the load.
func Load(text string, cat catalog.Catalog) (*deck.Deck, error) {
	sections, err := Parse(text)
	if err != nil {
		return nil, err
	}

	var d deck.Deck
	for _, part := range deck.DeckParts() {
		for _, raw := range sections.Part(part) {
			id, ok := resolve(cat, raw)
			if !ok {
				return nil, &UnknownIDError{ID: raw}
			}
			d.Increment(id, part.PartType(), 1)
		}
	}
	return &d, nil
}

func resolve(cat catalog.Catalog, raw uint64) (card.ID, bool) {
	if raw > math.MaxUint32 {
		return 0, false
	}
	return cat.IDForPassword(card.Password(raw))
}

// Read is Load over a reader.
func Read(r io.Reader, cat catalog.Catalog) (*deck.Deck, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Err: err}
	}
	return Load(string(data), cat)
}

// Save writes the deck part by part, one line per copy, in ascending id
// order within each part. Cards the catalog cannot resolve belong to the
// side deck only; they cannot be written and fail the save.
func Save(w io.Writer, d *deck.Deck, cat catalog.Catalog) error {
	bw := bufio.NewWriter(w)
	for _, part := range deck.DeckParts() {
		if _, err := fmt.Fprintln(bw, headerFor(part)); err != nil {
			return err
		}
		for _, pe := range d.ForPart(part, cat) {
			if pe.Card == nil {
				return fmt.Errorf("save %s deck: %w: id %d", part, deck.ErrUnknownCard, pe.ID)
			}
			for range pe.Count {
				if _, err := fmt.Fprintln(bw, pe.Card.Password); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}

// Format returns the deck as YDK text.
func Format(d *deck.Deck, cat catalog.Catalog) (string, error) {
	var sb strings.Builder
	if err := Save(&sb, d, cat); err != nil {
		return "", err
	}
	return sb.String(), nil
}
