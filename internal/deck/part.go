package deck

import (
	"fmt"
	"strings"

	"github.com/peterkuimelis/deckbuilder/internal/card"
)

// PartType selects one of the two counters stored per deck entry.
type PartType int

const (
	// Playing counts main and extra deck copies; the split is decided by
	// the card's classification, not stored.
	Playing PartType = iota
	Side
)

func (p PartType) String() string {
	switch p {
	case Playing:
		return "Playing"
	case Side:
		return "Side"
	default:
		return "Unknown"
	}
}

// Valid reports whether p names one of the two counters.
func (p PartType) Valid() bool {
	return p == Playing || p == Side
}

// ParsePartType accepts "playing" or "side" in any case.
func ParsePartType(s string) (PartType, error) {
	switch strings.ToLower(s) {
	case "playing":
		return Playing, nil
	case "side":
		return Side, nil
	default:
		return 0, fmt.Errorf("unknown part %q (want playing or side)", s)
	}
}

// DeckPart is one of the three legality partitions of a physical deck.
type DeckPart int

const (
	Main DeckPart = iota
	Extra
	SidePart
)

// DeckParts returns the parts in their fixed export order.
func DeckParts() []DeckPart {
	return []DeckPart{Main, Extra, SidePart}
}

func (p DeckPart) String() string {
	switch p {
	case Main:
		return "Main"
	case Extra:
		return "Extra"
	case SidePart:
		return "Side"
	default:
		return "Unknown"
	}
}

// Min is the inclusive lower bound of cards in the part.
func (p DeckPart) Min() int {
	if p == Main {
		return 40
	}
	return 0
}

// Max is the inclusive upper bound of cards in the part.
func (p DeckPart) Max() int {
	if p == Main {
		return 60
	}
	return 15
}

// PartType maps Main and Extra to Playing and Side to Side.
func (p DeckPart) PartType() PartType {
	if p == SidePart {
		return Side
	}
	return Playing
}

// CanContain reports whether c may be placed in the part. A nil card (one the
// catalog could not resolve) is only accepted by the side deck.
func (p DeckPart) CanContain(c *card.Card) bool {
	if p == SidePart {
		return true
	}
	if c == nil {
		return false
	}
	isExtra := c.Type.IsExtraDeckMonster()
	if p == Extra {
		return isExtra
	}
	return !isExtra
}
