package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckbuilder/internal/config"
)

const testCards = `
cards:
  - name: Blue-Eyes White Dragon
    passwords: [89631139, 89631140]
    description: This legendary dragon is a powerful engine of destruction.
    monster:
      race: Dragon
      attribute: LIGHT
      effect: Normal
      level: 8
      atk: 3000
      def: 2500
  - name: Pot of Greed
    passwords: [55144522]
    description: Draw 2 cards.
    limit: banned
    spell: Normal
  - name: Thousand Dragon
    passwords: [41462083]
    monster:
      race: Dragon
      attribute: WIND
      effect: Normal
      type: Fusion
      level: 7
      atk: 2400
      def: 2000
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// setup writes a YAML catalog and a config pointing at it, and returns the
// config path.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cards := filepath.Join(dir, "cards.yaml")
	require.NoError(t, os.WriteFile(cards, []byte(testCards), 0o644))

	cfg := config.DefaultConfig()
	cfg.Catalog.Path = cards
	cfg.Store.Path = filepath.Join(dir, "deck.db")
	cfg.Log.Level = "error"
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, cfg.Save(path))
	return path
}

// run executes one command line and returns stdout and stderr.
func run(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, errOut, err := run(t, cfgPath, args...)
	require.NoError(t, err, errOut)
	return out
}

func TestDeckEditing(t *testing.T) {
	cfg := setup(t)

	out := mustRun(t, cfg, "deck", "add", "89631139", "-n", "3")
	assert.Equal(t, "✓ Added 3 copies of Blue-Eyes White Dragon (Playing)\n", out)

	// Alternate passwords resolve to the same card.
	mustRun(t, cfg, "deck", "remove", "89631140")
	mustRun(t, cfg, "deck", "add", "41462083")
	mustRun(t, cfg, "deck", "add", "55144522", "--side")

	out = mustRun(t, cfg, "deck", "show")
	assert.Contains(t, out, "Main 2/40-60")
	assert.Contains(t, out, "2x 89631139   Blue-Eyes White Dragon")
	assert.Contains(t, out, "Extra 1/0-15")
	assert.Contains(t, out, "Side 1/0-15")
	assert.Contains(t, out, "undo available (4 edits, 0 undone)")

	assert.Equal(t, "✓ undo\n", mustRun(t, cfg, "deck", "undo"))
	out = mustRun(t, cfg, "deck", "encode")
	assert.Equal(t, "89631139:2:0,41462083:1:0 1;+p89631139:3,-p89631139:1,+p41462083:1,+s55144522:1\n", out)

	assert.Equal(t, "✓ redo\n", mustRun(t, cfg, "deck", "redo"))
	assert.Equal(t, "Nothing to redo\n", mustRun(t, cfg, "deck", "redo"))

	out = mustRun(t, cfg, "deck", "remove", "55144522")
	assert.Equal(t, "No change: Pot of Greed (Playing)\n", out)
}

func TestDeckEditErrors(t *testing.T) {
	cfg := setup(t)

	_, _, err := run(t, cfg, "deck", "add", "12345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown card password")

	_, _, err = run(t, cfg, "deck", "add", "abc")
	assert.Error(t, err)

	_, _, err = run(t, cfg, "deck", "add", "55144522", "-n", "0")
	assert.Error(t, err)
}

func TestImportExport(t *testing.T) {
	cfg := setup(t)
	dir := filepath.Dir(cfg)
	const text = "#main\n89631139\n89631139\n#extra\n41462083\n!side\n55144522\n"

	in := filepath.Join(dir, "in.ydk")
	require.NoError(t, os.WriteFile(in, []byte(text), 0o644))
	out := mustRun(t, cfg, "deck", "import", in)
	assert.Contains(t, out, "Main 2/40-60")
	assert.Contains(t, out, "no history")

	assert.Equal(t, text, mustRun(t, cfg, "deck", "export"))

	file := filepath.Join(dir, "out.ydk")
	mustRun(t, cfg, "deck", "export", "-o", file)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, text, string(data))

	bad := filepath.Join(dir, "bad.ydk")
	require.NoError(t, os.WriteFile(bad, []byte("#main\n999999\n"), 0o644))
	_, _, err = run(t, cfg, "deck", "import", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown card 999999")

	_, _, err = run(t, cfg, "deck", "import", filepath.Join(dir, "missing.ydk"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read input")

	// The failed imports left the deck alone.
	assert.Equal(t, text, mustRun(t, cfg, "deck", "export"))
}

func TestEventsGoToStderr(t *testing.T) {
	cfg := setup(t)
	_, errOut, err := run(t, cfg, "deck", "add", "55144522", "--side")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Increment| + 1 copy of Pot of Greed (Side)")
}

func TestSaveLoadList(t *testing.T) {
	cfg := setup(t)

	mustRun(t, cfg, "deck", "add", "89631139", "-n", "2")
	assert.Equal(t, "✓ Saved as dragons\n", mustRun(t, cfg, "deck", "save", "dragons"))
	mustRun(t, cfg, "deck", "new")
	assert.Contains(t, mustRun(t, cfg, "deck", "show"), "Main 0/40-60")

	out := mustRun(t, cfg, "deck", "list")
	assert.Contains(t, out, "current [current]")
	assert.Contains(t, out, "dragons")

	out = mustRun(t, cfg, "deck", "load", "dragons")
	assert.Contains(t, out, "Main 2/40-60")
	assert.Contains(t, out, "undo available")

	_, _, err := run(t, cfg, "deck", "load", "nope")
	assert.Error(t, err)

	// --key edits a different deck.
	out = mustRun(t, cfg, "--key", "dragons", "deck", "show")
	assert.Contains(t, out, "Main 2/40-60")
}

func TestCatalogCommands(t *testing.T) {
	cfg := setup(t)
	dir := filepath.Dir(cfg)

	bin := filepath.Join(dir, "cards.bin.xz")
	out := mustRun(t, cfg, "catalog", "build", "--from", filepath.Join(dir, "cards.yaml"), "--out", bin)
	assert.Equal(t, "✓ Wrote 3 cards to "+bin+"\n", out)

	out = mustRun(t, cfg, "--catalog", bin, "catalog", "info")
	assert.Contains(t, out, "Cards:     3")
	assert.Contains(t, out, "Extra deck monsters: 1")
	assert.Contains(t, out, "Alternate passwords: 1")

	out = mustRun(t, cfg, "--catalog", bin, "catalog", "search", "dragon")
	assert.Contains(t, out, "Found 2 card(s)")
	assert.Contains(t, out, "Blue-Eyes White Dragon")

	out = mustRun(t, cfg, "catalog", "search", "--text", "draw")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[len(lines)-1], "Pot of Greed")
	assert.Contains(t, lines[len(lines)-1], "banned")

	assert.Equal(t, "No cards found\n", mustRun(t, cfg, "catalog", "search", "zzz"))
	_, _, err := run(t, cfg, "catalog", "search")
	assert.Error(t, err)
}
