package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/deckbuilder/internal/card"
)

// SourceFile represents the top-level YAML structure of a catalog source.
type SourceFile struct {
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a single card in the YAML file. Exactly one of
// Monster, Spell and Trap must be set. The first password is the primary one.
type CardEntry struct {
	Name        string        `yaml:"name"`
	Passwords   []uint32      `yaml:"passwords"`
	Description string        `yaml:"description"`
	Archetype   string        `yaml:"archetype,omitempty"`
	Limit       string        `yaml:"limit,omitempty"`
	Monster     *MonsterEntry `yaml:"monster,omitempty"`
	Spell       string        `yaml:"spell,omitempty"`
	Trap        string        `yaml:"trap,omitempty"`
}

// MonsterEntry describes a monster. A nonzero Link makes it a link monster.
type MonsterEntry struct {
	Race      string   `yaml:"race"`
	Attribute string   `yaml:"attribute"`
	Effect    string   `yaml:"effect"`
	Tuner     bool     `yaml:"tuner,omitempty"`
	Type      string   `yaml:"type,omitempty"`
	Level     uint8    `yaml:"level,omitempty"`
	ATK       uint16   `yaml:"atk"`
	DEF       uint16   `yaml:"def,omitempty"`
	Scale     *uint8   `yaml:"scale,omitempty"`
	Link      uint8    `yaml:"link,omitempty"`
	Markers   []string `yaml:"markers,omitempty"`
}

// ParseYAML builds a catalog from YAML source data.
func ParseYAML(data []byte) (*Data, error) {
	var sf SourceFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	sources := make([]Source, 0, len(sf.Cards))
	for i, entry := range sf.Cards {
		src, err := entry.source()
		if err != nil {
			return nil, fmt.Errorf("card %d (%q): %w", i+1, entry.Name, err)
		}
		sources = append(sources, src)
	}
	return New(sources)
}

// ParseYAMLFile reads and parses a YAML catalog source file.
func ParseYAMLFile(path string) (*Data, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// Open loads a catalog from either a YAML source file (.yaml or .yml) or
// the compressed binary format.
func Open(path string) (*Data, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAMLFile(path)
	default:
		return LoadFile(path)
	}
}

func (e CardEntry) source() (Source, error) {
	if e.Name == "" {
		return Source{}, fmt.Errorf("missing name")
	}
	if len(e.Passwords) == 0 {
		return Source{}, fmt.Errorf("missing passwords")
	}

	limit, err := card.ParseLimit(e.Limit)
	if err != nil {
		return Source{}, err
	}
	t, err := e.cardType()
	if err != nil {
		return Source{}, err
	}

	src := Source{
		Card: card.Card{
			Name:        e.Name,
			Password:    card.Password(e.Passwords[0]),
			Description: e.Description,
			Type:        t,
			Limit:       limit,
			Archetype:   e.Archetype,
		},
	}
	for _, p := range e.Passwords[1:] {
		src.Aliases = append(src.Aliases, card.Password(p))
	}
	return src, nil
}

func (e CardEntry) cardType() (card.Type, error) {
	kinds := 0
	if e.Monster != nil {
		kinds++
	}
	if e.Spell != "" {
		kinds++
	}
	if e.Trap != "" {
		kinds++
	}
	if kinds != 1 {
		return card.Type{}, fmt.Errorf("exactly one of monster, spell or trap must be set")
	}

	switch {
	case e.Spell != "":
		st, err := card.ParseSpellType(e.Spell)
		return card.Type{Kind: card.KindSpell, Spell: st}, err
	case e.Trap != "":
		tt, err := card.ParseTrapType(e.Trap)
		return card.Type{Kind: card.KindTrap, Trap: tt}, err
	}

	m, err := e.Monster.monster()
	if err != nil {
		return card.Type{}, err
	}
	return card.Type{Kind: card.KindMonster, Monster: m}, nil
}

func (e *MonsterEntry) monster() (*card.Monster, error) {
	race, err := card.ParseRace(e.Race)
	if err != nil {
		return nil, err
	}
	attr, err := card.ParseAttribute(e.Attribute)
	if err != nil {
		return nil, err
	}
	effect, err := card.ParseMonsterEffect(e.Effect)
	if err != nil {
		return nil, err
	}

	m := &card.Monster{Race: race, Attribute: attr, Effect: effect, Tuner: e.Tuner}
	if e.Link > 0 {
		m.Stats = card.Stats{Link: true, ATK: e.ATK, LinkValue: e.Link}
		for _, name := range e.Markers {
			marker, err := card.ParseLinkMarker(name)
			if err != nil {
				return nil, err
			}
			m.Stats.LinkMarkers.Add(marker)
		}
		return m, nil
	}

	mt, err := card.ParseMonsterType(e.Type)
	if err != nil {
		return nil, err
	}
	m.Stats = card.Stats{ATK: e.ATK, DEF: e.DEF, Level: e.Level, MonsterType: mt}
	if e.Scale != nil {
		m.Stats.Pendulum = true
		m.Stats.PendulumScale = *e.Scale
	}
	return m, nil
}
