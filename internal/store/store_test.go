package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckbuilder/internal/catalog/catalogtest"
	"github.com/peterkuimelis/deckbuilder/internal/deck"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DefaultConfig(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenWithNilConfig(t *testing.T) {
	_, err := Open(context.Background(), nil)
	assert.Error(t, err)
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	_, found, err := s.Get(ctx, "current")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, "current", "a"))
	require.NoError(t, s.Put(ctx, "current", "b"))
	data, found, err := s.Get(ctx, "current")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "b", data)

	require.NoError(t, s.Delete(ctx, "current"))
	require.NoError(t, s.Delete(ctx, "current"))
	_, found, err = s.Get(ctx, "current")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeysNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	clock := time.Unix(1000, 0)
	s.now = func() time.Time { return clock }
	require.NoError(t, s.Put(ctx, "old", "x"))
	clock = clock.Add(time.Minute)
	require.NoError(t, s.Put(ctx, "new", "y"))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, keys)
}

func TestEditorRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	cat := catalogtest.New(catalogtest.MainCard(10), catalogtest.ExtraCard(20))

	e := deck.NewEditor(nil)
	e.Increment(0, deck.Playing, 3)
	e.Increment(1, deck.Side, 1)
	e.Undo()

	n, err := s.SaveEditor(ctx, "current", e, cat)
	require.NoError(t, err)
	assert.Positive(t, n)

	loaded, restored, err := s.LoadEditor(ctx, "current", cat)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.True(t, e.Equal(loaded))
}

func TestLoadEditorDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	cat := catalogtest.New(catalogtest.MainCard(10))

	e, restored, err := s.LoadEditor(ctx, "missing", cat)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, 0, e.Deck().Len())

	require.NoError(t, s.Put(ctx, "broken", "not an encoded deck"))
	e, restored, err = s.LoadEditor(ctx, "broken", cat)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, 0, e.Deck().Len())
}

func TestFileDatabasePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "decks.db")

	s, err := Open(ctx, DefaultConfig(path))
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", "v"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, DefaultConfig(path))
	require.NoError(t, err)
	defer s.Close()
	data, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", data)
}
