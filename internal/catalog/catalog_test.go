package catalog_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckbuilder/internal/card"
	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/catalog/catalogtest"
)

func TestLookup(t *testing.T) {
	data := catalogtest.New(
		catalogtest.MainCard(1),
		catalogtest.WithAliases(catalogtest.ExtraCard(23), 24, 25),
	)

	c, ok := data.Card(1)
	require.True(t, ok)
	assert.Equal(t, card.Password(23), c.Password)

	_, ok = data.Card(2)
	assert.False(t, ok, "id past the end must not resolve")

	for _, password := range []card.Password{23, 24, 25} {
		id, ok := data.IDForPassword(password)
		require.True(t, ok, "password %d", password)
		assert.Equal(t, card.ID(1), id)
	}

	_, ok = data.IDForPassword(999)
	assert.False(t, ok)

	assert.ElementsMatch(t, []card.Password{24, 25}, data.Aliases(1))
	assert.Equal(t, 2, data.Len())
}

func TestAliasesSortedAndCopied(t *testing.T) {
	data := catalogtest.New(
		catalogtest.MainCard(1),
		catalogtest.WithAliases(catalogtest.ExtraCard(50), 90, 30, 70, 50),
	)

	assert.Nil(t, data.Aliases(0))
	assert.Nil(t, data.Aliases(9))
	assert.Equal(t, []card.Password{30, 70, 90}, data.Aliases(1))

	aliases := data.Aliases(1)
	aliases[0] = 12345
	assert.Equal(t, []card.Password{30, 70, 90}, data.Aliases(1), "callers get a copy")

	var buf bytes.Buffer
	require.NoError(t, catalog.Encode(&buf, data))
	decoded, err := catalog.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []card.Password{30, 70, 90}, decoded.Aliases(1))
	assert.Nil(t, decoded.Aliases(0))
}

func TestDuplicatePassword(t *testing.T) {
	_, err := catalog.New([]catalog.Source{
		catalogtest.MainCard(1),
		catalogtest.WithAliases(catalogtest.MainCard(2), 1),
	})
	if !errors.Is(err, catalog.ErrDuplicatePassword) {
		t.Fatalf("expected ErrDuplicatePassword, got %v", err)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	linkCard := catalog.Source{Card: card.Card{
		Name:     "Decode Talker",
		Password: 1861629,
		Limit:    card.Limited,
		Type: card.Type{
			Kind: card.KindMonster,
			Monster: &card.Monster{
				Race:      card.RaceCyberse,
				Attribute: card.AttrDARK,
				Effect:    card.EffectEffect,
				Stats:     card.Stats{Link: true, ATK: 2300, LinkValue: 3, LinkMarkers: 0b0010_0101},
			},
		},
	}}
	pendulum := catalogtest.MainCard(7)
	pendulum.Card.Type.Monster.Stats.Pendulum = true
	pendulum.Card.Type.Monster.Stats.PendulumScale = 8
	pendulum.Card.Description = "Pendulum effect\nMonster effect"
	pendulum.Card.Archetype = "Odd-Eyes"

	data := catalogtest.New(
		catalogtest.MainCard(1),
		catalogtest.WithAliases(catalogtest.ExtraCard(23), 24),
		catalogtest.SpellCard(456),
		linkCard,
		pendulum,
		catalog.Source{Card: card.Card{Name: "Trap", Password: 9, Type: card.Type{Kind: card.KindTrap, Trap: card.TrapCounter}}},
	)

	var buf bytes.Buffer
	require.NoError(t, catalog.Encode(&buf, data))

	decoded, err := catalog.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, data.Len(), decoded.Len())

	for id, want := range data.All() {
		got, ok := decoded.Card(id)
		require.True(t, ok)
		assert.Equal(t, *want, *got)
	}
	for _, password := range []card.Password{1, 23, 24, 456, 1861629, 7, 9} {
		wantID, _ := data.IDForPassword(password)
		gotID, ok := decoded.IDForPassword(password)
		require.True(t, ok, "password %d", password)
		assert.Equal(t, wantID, gotID)
	}
}

func TestBinaryFile(t *testing.T) {
	data := catalogtest.New(catalogtest.MainCard(1), catalogtest.ExtraCard(2))
	path := filepath.Join(t.TempDir(), catalog.DataFilename)

	require.NoError(t, catalog.SaveFile(path, data))
	loaded, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := catalog.Decode(bytes.NewReader([]byte("definitely not xz"))); err == nil {
		t.Fatal("expected error for non-xz input")
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, catalog.Encode(&buf, catalogtest.New(catalogtest.MainCard(1))))

	full, err := catalog.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 1, full.Len())

	_, err = catalog.Decode(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	data := catalogtest.New(
		catalogtest.MainCard(1),
		catalogtest.ExtraCard(2),
		catalogtest.MainCard(3),
		catalogtest.SpellCard(4),
	)

	assert.Equal(t, []card.ID{0, 2}, data.Search(catalog.Filter{Name: "main"}, 0))
	assert.Equal(t, []card.ID{0}, data.Search(catalog.Filter{Name: "MAIN"}, 1))
	assert.Len(t, data.Search(catalog.Filter{}, 0), 4)
	assert.Empty(t, data.Search(catalog.Filter{Text: "draw"}, 0))
}
