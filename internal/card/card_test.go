package card

import (
	"slices"
	"testing"
)

func monster(name string, level uint8, mt MonsterType, effect MonsterEffect) *Card {
	return &Card{
		Name: name,
		Type: Type{
			Kind: KindMonster,
			Monster: &Monster{
				Race:      RaceDragon,
				Attribute: AttrLIGHT,
				Effect:    effect,
				Stats:     Stats{ATK: 1000, DEF: 1000, Level: level, MonsterType: mt},
			},
		},
	}
}

func link(name string, value uint8) *Card {
	return &Card{
		Name: name,
		Type: Type{
			Kind: KindMonster,
			Monster: &Monster{
				Race:      RaceCyberse,
				Attribute: AttrDARK,
				Effect:    EffectEffect,
				Stats:     Stats{Link: true, ATK: 2300, LinkValue: value},
			},
		},
	}
}

func spell(name string, st SpellType) *Card {
	return &Card{Name: name, Type: Type{Kind: KindSpell, Spell: st}}
}

func trap(name string, tt TrapType) *Card {
	return &Card{Name: name, Type: Type{Kind: KindTrap, Trap: tt}}
}

func TestIsExtraDeckMonster(t *testing.T) {
	tests := []struct {
		name string
		card *Card
		want bool
	}{
		{"normal monster", monster("A", 4, MonsterTypeNone, EffectNormal), false},
		{"ritual monster", monster("B", 8, MonsterTypeRitual, EffectEffect), false},
		{"fusion monster", monster("C", 8, MonsterTypeFusion, EffectEffect), true},
		{"synchro monster", monster("D", 8, MonsterTypeSynchro, EffectEffect), true},
		{"xyz monster", monster("E", 4, MonsterTypeXyz, EffectEffect), true},
		{"link monster", link("F", 2), true},
		{"spell", spell("G", SpellNormal), false},
		{"trap", trap("H", TrapCounter), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.Type.IsExtraDeckMonster(); got != tt.want {
				t.Errorf("IsExtraDeckMonster() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonsterWithoutStatsIsNotExtra(t *testing.T) {
	c := &Card{Name: "Broken", Type: Type{Kind: KindMonster}}
	if c.Type.IsExtraDeckMonster() {
		t.Error("monster without stats should not be classified as extra deck")
	}
	if c.Type.IsMonster() {
		t.Error("monster without stats should not report IsMonster")
	}
}

func TestLimitCount(t *testing.T) {
	want := map[Limit]uint8{Unlimited: 3, SemiLimited: 2, Limited: 1, Banned: 0}
	for limit, count := range want {
		if got := limit.Count(); got != count {
			t.Errorf("%s.Count() = %d, want %d", limit, got, count)
		}
	}
}

func TestParseNames(t *testing.T) {
	if r, err := ParseRace("Winged Beast"); err != nil || r != RaceWingedBeast {
		t.Errorf("ParseRace = %v, %v", r, err)
	}
	if _, err := ParseRace("Robot"); err == nil {
		t.Error("expected error for unknown race")
	}
	if a, err := ParseAttribute("WIND"); err != nil || a != AttrWIND {
		t.Errorf("ParseAttribute = %v, %v", a, err)
	}
	if m, err := ParseMonsterType(""); err != nil || m != MonsterTypeNone {
		t.Errorf("ParseMonsterType(\"\") = %v, %v", m, err)
	}
	if s, err := ParseSpellType("Quick-Play"); err != nil || s != SpellQuickPlay {
		t.Errorf("ParseSpellType = %v, %v", s, err)
	}
	if tt, err := ParseTrapType("Counter"); err != nil || tt != TrapCounter {
		t.Errorf("ParseTrapType = %v, %v", tt, err)
	}
	if l, err := ParseLimit(""); err != nil || l != Unlimited {
		t.Errorf("ParseLimit(\"\") = %v, %v", l, err)
	}
	if _, err := ParseLimit("forbidden"); err == nil {
		t.Error("expected error for unknown limit")
	}
}

func TestLinkMarkers(t *testing.T) {
	var m LinkMarkers
	m.Add(MarkerTop)
	m.Add(MarkerBottomLeft)

	if !m.Has(MarkerTop) || !m.Has(MarkerBottomLeft) {
		t.Errorf("markers %08b missing added bits", m)
	}
	if m.Has(MarkerLeft) {
		t.Errorf("markers %08b has unexpected bit", m)
	}
}

func TestCompareDisplayOrder(t *testing.T) {
	cards := []*Card{
		trap("Mirror Force", TrapNormal),
		spell("Pot of Greed", SpellNormal),
		link("Decode Talker", 3),
		monster("Dark Magician", 7, MonsterTypeNone, EffectNormal),
		spell("Umi", SpellField),
		monster("Sangan", 3, MonsterTypeNone, EffectEffect),
		monster("Blue-Eyes Ultimate Dragon", 12, MonsterTypeFusion, EffectNormal),
		trap("Solemn Judgment", TrapCounter),
	}

	slices.SortFunc(cards, Compare)

	var got []string
	for _, c := range cards {
		got = append(got, c.Name)
	}
	want := []string{
		"Dark Magician",
		"Blue-Eyes Ultimate Dragon",
		"Sangan",
		"Decode Talker",
		"Umi",
		"Pot of Greed",
		"Solemn Judgment",
		"Mirror Force",
	}
	if !slices.Equal(got, want) {
		t.Errorf("display order:\n got  %v\n want %v", got, want)
	}
}
