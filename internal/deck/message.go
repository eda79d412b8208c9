package deck

import (
	"fmt"

	"github.com/peterkuimelis/deckbuilder/internal/card"
)

// Action is the direction of a deck edit.
type Action int

const (
	Inc Action = iota
	Dec
)

func (a Action) String() string {
	switch a {
	case Inc:
		return "Inc"
	case Dec:
		return "Dec"
	default:
		return "Unknown"
	}
}

// Message records an edit with the amount that was actually applied.
type Message struct {
	Action Action
	ID     card.ID
	Part   PartType
	Amount uint8
}

// Invert returns the message that undoes m.
func (m Message) Invert() Message {
	inv := m
	if m.Action == Inc {
		inv.Action = Dec
	} else {
		inv.Action = Inc
	}
	return inv
}

func (m Message) String() string {
	return fmt.Sprintf("%s %d %s x%d", m.Action, m.ID, m.Part, m.Amount)
}

func (m Message) apply(d *Deck) uint8 {
	if m.Action == Inc {
		return d.Increment(m.ID, m.Part, m.Amount)
	}
	return d.Decrement(m.ID, m.Part, m.Amount)
}
