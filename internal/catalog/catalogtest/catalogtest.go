// Package catalogtest builds small in-memory catalogs for tests.
package catalogtest

import (
	"fmt"

	"github.com/peterkuimelis/deckbuilder/internal/card"
	"github.com/peterkuimelis/deckbuilder/internal/catalog"
)

// MainCard returns a level 4 normal monster that belongs in the main deck.
func MainCard(password card.Password) catalog.Source {
	return catalog.Source{Card: card.Card{
		Name:     fmt.Sprintf("Main %d", password),
		Password: password,
		Type: card.Type{
			Kind: card.KindMonster,
			Monster: &card.Monster{
				Race:      card.RaceWarrior,
				Attribute: card.AttrEARTH,
				Effect:    card.EffectNormal,
				Stats:     card.Stats{ATK: 1500, DEF: 1000, Level: 4},
			},
		},
	}}
}

// ExtraCard returns a fusion monster that belongs in the extra deck.
func ExtraCard(password card.Password) catalog.Source {
	return catalog.Source{Card: card.Card{
		Name:     fmt.Sprintf("Extra %d", password),
		Password: password,
		Type: card.Type{
			Kind: card.KindMonster,
			Monster: &card.Monster{
				Race:      card.RaceDragon,
				Attribute: card.AttrLIGHT,
				Effect:    card.EffectEffect,
				Stats:     card.Stats{ATK: 3000, DEF: 2500, Level: 8, MonsterType: card.MonsterTypeFusion},
			},
		},
	}}
}

// SpellCard returns a normal spell.
func SpellCard(password card.Password) catalog.Source {
	return catalog.Source{Card: card.Card{
		Name:     fmt.Sprintf("Spell %d", password),
		Password: password,
		Type:     card.Type{Kind: card.KindSpell, Spell: card.SpellNormal},
	}}
}

// WithAliases adds alternate printings to src.
func WithAliases(src catalog.Source, aliases ...card.Password) catalog.Source {
	src.Aliases = append(src.Aliases, aliases...)
	return src
}

// New builds a catalog from sources; ids follow argument order.
func New(sources ...catalog.Source) *catalog.Data {
	return catalog.MustNew(sources)
}
