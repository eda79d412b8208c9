package card

import "fmt"

// ID is the internal catalog index of a card.
// The mapping changes between catalog builds, so it must not be persisted.
type ID uint32

// Password is the external card number printed on the card.
// uint32 is the smallest integer type which fits all eight-digit numbers.
type Password uint32

// --- Enums ---

type Kind int

const (
	KindMonster Kind = iota
	KindSpell
	KindTrap
)

func (k Kind) String() string {
	switch k {
	case KindMonster:
		return "Monster"
	case KindSpell:
		return "Spell"
	case KindTrap:
		return "Trap"
	default:
		return "Unknown"
	}
}

type Race int

const (
	RaceAqua Race = iota
	RaceBeast
	RaceBeastWarrior
	RaceCreatorGod
	RaceCyberse
	RaceDinosaur
	RaceDivineBeast
	RaceDragon
	RaceFairy
	RaceFiend
	RaceFish
	RaceIllusion
	RaceInsect
	RaceMachine
	RacePlant
	RacePsychic
	RacePyro
	RaceReptile
	RaceRock
	RaceSeaSerpent
	RaceSpellcaster
	RaceThunder
	RaceWarrior
	RaceWingedBeast
	RaceWyrm
	RaceZombie
)

var raceNames = [...]string{
	RaceAqua:         "Aqua",
	RaceBeast:        "Beast",
	RaceBeastWarrior: "Beast-Warrior",
	RaceCreatorGod:   "Creator God",
	RaceCyberse:      "Cyberse",
	RaceDinosaur:     "Dinosaur",
	RaceDivineBeast:  "Divine-Beast",
	RaceDragon:       "Dragon",
	RaceFairy:        "Fairy",
	RaceFiend:        "Fiend",
	RaceFish:         "Fish",
	RaceIllusion:     "Illusion",
	RaceInsect:       "Insect",
	RaceMachine:      "Machine",
	RacePlant:        "Plant",
	RacePsychic:      "Psychic",
	RacePyro:         "Pyro",
	RaceReptile:      "Reptile",
	RaceRock:         "Rock",
	RaceSeaSerpent:   "Sea Serpent",
	RaceSpellcaster:  "Spellcaster",
	RaceThunder:      "Thunder",
	RaceWarrior:      "Warrior",
	RaceWingedBeast:  "Winged Beast",
	RaceWyrm:         "Wyrm",
	RaceZombie:       "Zombie",
}

func (r Race) String() string {
	if r < 0 || int(r) >= len(raceNames) {
		return "Unknown"
	}
	return raceNames[r]
}

// ParseRace resolves a race by its display name.
func ParseRace(s string) (Race, error) {
	for i, name := range raceNames {
		if name == s {
			return Race(i), nil
		}
	}
	return 0, fmt.Errorf("unknown race %q", s)
}

type Attribute int

const (
	AttrDARK Attribute = iota
	AttrEARTH
	AttrFIRE
	AttrLIGHT
	AttrWATER
	AttrWIND
	AttrDIVINE
)

var attributeNames = [...]string{
	AttrDARK:   "DARK",
	AttrEARTH:  "EARTH",
	AttrFIRE:   "FIRE",
	AttrLIGHT:  "LIGHT",
	AttrWATER:  "WATER",
	AttrWIND:   "WIND",
	AttrDIVINE: "DIVINE",
}

func (a Attribute) String() string {
	if a < 0 || int(a) >= len(attributeNames) {
		return ""
	}
	return attributeNames[a]
}

// ParseAttribute resolves an attribute by its upper-case name.
func ParseAttribute(s string) (Attribute, error) {
	for i, name := range attributeNames {
		if name == s {
			return Attribute(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", s)
}

// MonsterType is the summoning classification of a non-link monster.
type MonsterType int

const (
	MonsterTypeNone MonsterType = iota
	MonsterTypeFusion
	MonsterTypeRitual
	MonsterTypeSynchro
	MonsterTypeXyz
)

var monsterTypeNames = [...]string{
	MonsterTypeNone:    "",
	MonsterTypeFusion:  "Fusion",
	MonsterTypeRitual:  "Ritual",
	MonsterTypeSynchro: "Synchro",
	MonsterTypeXyz:     "Xyz",
}

func (m MonsterType) String() string {
	if m < 0 || int(m) >= len(monsterTypeNames) {
		return ""
	}
	return monsterTypeNames[m]
}

// ParseMonsterType resolves a monster type name; the empty string is MonsterTypeNone.
func ParseMonsterType(s string) (MonsterType, error) {
	for i, name := range monsterTypeNames {
		if name == s {
			return MonsterType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown monster type %q", s)
}

type MonsterEffect int

const (
	EffectNormal MonsterEffect = iota
	EffectEffect
	EffectSpirit
	EffectToon
	EffectUnion
	EffectGemini
	EffectFlip
)

var effectNames = [...]string{
	EffectNormal: "Normal",
	EffectEffect: "Effect",
	EffectSpirit: "Spirit",
	EffectToon:   "Toon",
	EffectUnion:  "Union",
	EffectGemini: "Gemini",
	EffectFlip:   "Flip",
}

func (e MonsterEffect) String() string {
	if e < 0 || int(e) >= len(effectNames) {
		return ""
	}
	return effectNames[e]
}

// ParseMonsterEffect resolves a monster effect name.
func ParseMonsterEffect(s string) (MonsterEffect, error) {
	for i, name := range effectNames {
		if name == s {
			return MonsterEffect(i), nil
		}
	}
	return 0, fmt.Errorf("unknown monster effect %q", s)
}

type SpellType int

const (
	SpellNormal SpellType = iota
	SpellField
	SpellEquip
	SpellContinuous
	SpellQuickPlay
	SpellRitual
)

var spellNames = [...]string{
	SpellNormal:     "Normal",
	SpellField:      "Field",
	SpellEquip:      "Equip",
	SpellContinuous: "Continuous",
	SpellQuickPlay:  "Quick-Play",
	SpellRitual:     "Ritual",
}

func (s SpellType) String() string {
	if s < 0 || int(s) >= len(spellNames) {
		return ""
	}
	return spellNames[s]
}

// ParseSpellType resolves a spell subtype name.
func ParseSpellType(s string) (SpellType, error) {
	for i, name := range spellNames {
		if name == s {
			return SpellType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown spell type %q", s)
}

type TrapType int

const (
	TrapNormal TrapType = iota
	TrapContinuous
	TrapCounter
)

var trapNames = [...]string{
	TrapNormal:     "Normal",
	TrapContinuous: "Continuous",
	TrapCounter:    "Counter",
}

func (t TrapType) String() string {
	if t < 0 || int(t) >= len(trapNames) {
		return ""
	}
	return trapNames[t]
}

// ParseTrapType resolves a trap subtype name.
func ParseTrapType(s string) (TrapType, error) {
	for i, name := range trapNames {
		if name == s {
			return TrapType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trap type %q", s)
}

// Limit is the banlist status of a card.
type Limit int

const (
	Unlimited Limit = iota
	SemiLimited
	Limited
	Banned
)

var limitNames = [...]string{
	Unlimited:   "unlimited",
	SemiLimited: "semi-limited",
	Limited:     "limited",
	Banned:      "banned",
}

func (l Limit) String() string {
	if l < 0 || int(l) >= len(limitNames) {
		return "unknown"
	}
	return limitNames[l]
}

// Count returns how many copies of a card with this limit a deck may hold.
func (l Limit) Count() uint8 {
	switch l {
	case SemiLimited:
		return 2
	case Limited:
		return 1
	case Banned:
		return 0
	default:
		return 3
	}
}

// ParseLimit resolves a limit name; the empty string is Unlimited.
func ParseLimit(s string) (Limit, error) {
	if s == "" {
		return Unlimited, nil
	}
	for i, name := range limitNames {
		if name == s {
			return Limit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown limit %q", s)
}

// --- Link markers ---

type LinkMarker uint8

const (
	MarkerTopLeft LinkMarker = iota
	MarkerTop
	MarkerTopRight
	MarkerRight
	MarkerBottomRight
	MarkerBottom
	MarkerBottomLeft
	MarkerLeft
)

// LinkMarkers is a bit set of LinkMarker values.
type LinkMarkers uint8

func (m *LinkMarkers) Add(marker LinkMarker) {
	*m |= 1 << marker
}

func (m LinkMarkers) Has(marker LinkMarker) bool {
	return m&(1<<marker) != 0
}

// --- Card definition ---

// Stats are the combat numbers of a monster. Link monsters carry a link
// value and markers instead of DEF and level.
type Stats struct {
	Link          bool
	ATK           uint16
	DEF           uint16
	Level         uint8
	MonsterType   MonsterType
	Pendulum      bool
	PendulumScale uint8
	LinkValue     uint8
	LinkMarkers   LinkMarkers
}

// Monster holds the monster-only part of a card's classification.
type Monster struct {
	Race      Race
	Attribute Attribute
	Effect    MonsterEffect
	Tuner     bool
	Stats     Stats
}

// Type classifies a card. Monster is set only when Kind is KindMonster.
type Type struct {
	Kind    Kind
	Monster *Monster
	Spell   SpellType
	Trap    TrapType
}

func (t Type) IsMonster() bool { return t.Kind == KindMonster && t.Monster != nil }
func (t Type) IsSpell() bool   { return t.Kind == KindSpell }
func (t Type) IsTrap() bool    { return t.Kind == KindTrap }

// IsPendulumMonster reports whether the card is a non-link monster with a pendulum scale.
func (t Type) IsPendulumMonster() bool {
	return t.IsMonster() && !t.Monster.Stats.Link && t.Monster.Stats.Pendulum
}

// IsExtraDeckMonster reports whether the card lives in the extra deck:
// Fusion, Synchro and Xyz monsters, and every Link monster.
func (t Type) IsExtraDeckMonster() bool {
	if !t.IsMonster() {
		return false
	}
	stats := t.Monster.Stats
	if stats.Link {
		return true
	}
	switch stats.MonsterType {
	case MonsterTypeFusion, MonsterTypeSynchro, MonsterTypeXyz:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	switch {
	case t.IsMonster():
		m := t.Monster
		if m.Stats.Link {
			return fmt.Sprintf("%s/Link-%d %s Monster", m.Attribute, m.Stats.LinkValue, m.Race)
		}
		kind := m.Effect.String()
		if m.Stats.MonsterType != MonsterTypeNone {
			kind = m.Stats.MonsterType.String() + "/" + kind
		}
		return fmt.Sprintf("%s/Level %d %s %s Monster", m.Attribute, m.Stats.Level, m.Race, kind)
	case t.IsSpell():
		return t.Spell.String() + " Spell"
	case t.IsTrap():
		return t.Trap.String() + " Trap"
	default:
		return "Unknown"
	}
}

// Card is the static catalog record for one card.
type Card struct {
	Name        string
	Password    Password // primary password; alternate arts resolve through the catalog
	Description string
	Type        Type
	Limit       Limit
	Archetype   string
}

func (c *Card) String() string {
	return c.Name
}

var markerNames = [...]string{
	MarkerTopLeft:     "Top-Left",
	MarkerTop:         "Top",
	MarkerTopRight:    "Top-Right",
	MarkerRight:       "Right",
	MarkerBottomRight: "Bottom-Right",
	MarkerBottom:      "Bottom",
	MarkerBottomLeft:  "Bottom-Left",
	MarkerLeft:        "Left",
}

func (m LinkMarker) String() string {
	if int(m) >= len(markerNames) {
		return ""
	}
	return markerNames[m]
}

// ParseLinkMarker resolves a marker name such as "Bottom-Left".
func ParseLinkMarker(s string) (LinkMarker, error) {
	for i, name := range markerNames {
		if name == s {
			return LinkMarker(i), nil
		}
	}
	return 0, fmt.Errorf("unknown link marker %q", s)
}
