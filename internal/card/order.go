package card

import (
	"cmp"
	"slices"
	"strings"
)

// Display order: normal monsters, effect monsters, spells, traps. Within each
// group the rank keys below are compared descending, then names ascending.

func spellRank(s SpellType) uint32 {
	switch s {
	case SpellField:
		return 5
	case SpellRitual:
		return 4
	case SpellContinuous:
		return 3
	case SpellEquip:
		return 2
	case SpellQuickPlay:
		return 1
	default:
		return 0
	}
}

func trapRank(t TrapType) uint32 {
	switch t {
	case TrapContinuous:
		return 2
	case TrapCounter:
		return 1
	default:
		return 0
	}
}

func monsterTypeRank(m MonsterType) uint32 {
	switch m {
	case MonsterTypeRitual:
		return 3
	case MonsterTypeFusion:
		return 2
	case MonsterTypeSynchro:
		return 1
	case MonsterTypeXyz:
		return 0
	default:
		return 4
	}
}

func statsRank(s Stats) []uint32 {
	if s.Link {
		return []uint32{0, uint32(s.LinkValue)}
	}
	keys := []uint32{1, monsterTypeRank(s.MonsterType)}
	if s.Pendulum {
		keys = append(keys, 0, uint32(s.PendulumScale))
	} else {
		keys = append(keys, 1)
	}
	return append(keys, uint32(s.Level))
}

func typeRank(t Type) []uint32 {
	switch {
	case t.IsMonster():
		group := uint32(2)
		if t.Monster.Effect == EffectNormal {
			group = 3
		}
		return append([]uint32{group}, statsRank(t.Monster.Stats)...)
	case t.IsSpell():
		return []uint32{1, spellRank(t.Spell)}
	default:
		return []uint32{0, trapRank(t.Trap)}
	}
}

// Compare orders cards for display. It returns a negative number when a
// sorts before b. It is suitable for slices.SortFunc.
func Compare(a, b *Card) int {
	if c := slices.Compare(typeRank(b.Type), typeRank(a.Type)); c != 0 {
		return c
	}
	return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}
