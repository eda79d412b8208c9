package session

import (
	"slices"

	"github.com/peterkuimelis/deckbuilder/internal/card"
	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/deck"
	"github.com/peterkuimelis/deckbuilder/internal/log"
)

// JSON views shared by the web and MCP surfaces.

// DeckView is the whole edited deck as shown to a client.
type DeckView struct {
	Parts   []PartView `json:"parts"`
	CanUndo bool       `json:"can_undo"`
	CanRedo bool       `json:"can_redo"`
	History int        `json:"history"` // recorded edits, undone ones included
	Offset  int        `json:"offset"`  // undone edits
}

// PartView lists one of main, extra and side in display order.
type PartView struct {
	Name  string     `json:"name"`
	Count int        `json:"count"`
	Min   int        `json:"min"`
	Max   int        `json:"max"`
	Cards []CardView `json:"cards"`
}

// CardView describes a card, optionally with the copies held in a part.
type CardView struct {
	Password uint32 `json:"password"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Limit    string `json:"limit"`
	Count    int    `json:"count,omitempty"`
	Extra    bool   `json:"extra,omitempty"`
}

// EventView is a simplified deck event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Part    string `json:"part,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// ServerMessage is the envelope pushed to subscribers.
type ServerMessage struct {
	Type string `json:"type"` // "deck", "event" or "error"

	Deck  *DeckView  `json:"deck,omitempty"`
	Event *EventView `json:"event,omitempty"`
	Error string     `json:"error,omitempty"`
}

// ClientMessage is a command sent by a websocket client.
type ClientMessage struct {
	Type string `json:"type"` // increment, decrement, undo, redo or new

	Password uint32 `json:"password,omitempty"`
	Part     string `json:"part,omitempty"`
	Amount   int    `json:"amount,omitempty"`
}

func newCardView(c *card.Card) CardView {
	return CardView{
		Password: uint32(c.Password),
		Name:     c.Name,
		Type:     c.Type.String(),
		Limit:    c.Limit.String(),
		Extra:    c.Type.IsExtraDeckMonster(),
	}
}

func newEventView(e log.DeckEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Type:    e.Type.String(),
		Card:    e.Card,
		Part:    e.Part,
		Amount:  e.Amount,
		Details: e.Details,
	}
}

// BuildDeckView renders the editor's deck part by part. Cards within a part
// follow the display order; cards the catalog cannot resolve come last.
func BuildDeckView(e *deck.Editor, cat catalog.Catalog) *DeckView {
	d := e.Deck()
	h := e.History()
	view := &DeckView{
		CanUndo: e.CanUndo(),
		CanRedo: e.CanRedo(),
		History: h.Len(),
		Offset:  h.Offset(),
	}

	for _, part := range deck.DeckParts() {
		entries := d.ForPart(part, cat)
		slices.SortStableFunc(entries, func(a, b deck.PartEntry) int {
			switch {
			case a.Card == nil && b.Card == nil:
				return 0
			case a.Card == nil:
				return 1
			case b.Card == nil:
				return -1
			}
			return card.Compare(a.Card, b.Card)
		})

		pv := PartView{
			Name:  part.String(),
			Min:   part.Min(),
			Max:   part.Max(),
			Cards: []CardView{},
		}
		for _, pe := range entries {
			cv := CardView{Name: "Unknown card", Count: int(pe.Count)}
			if pe.Card != nil {
				cv = newCardView(pe.Card)
				cv.Count = int(pe.Count)
			}
			pv.Count += cv.Count
			pv.Cards = append(pv.Cards, cv)
		}
		view.Parts = append(view.Parts, pv)
	}
	return view
}
