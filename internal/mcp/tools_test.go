package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/deckbuilder/internal/catalog/catalogtest"
	"github.com/peterkuimelis/deckbuilder/internal/session"
)

func newTestTools(t *testing.T) *Tools {
	t.Helper()
	sess, err := session.Open(context.Background(), session.Options{
		Catalog: catalogtest.New(
			catalogtest.MainCard(1),
			catalogtest.MainCard(23),
			catalogtest.ExtraCard(2),
			catalogtest.SpellCard(456),
		),
	})
	require.NoError(t, err)
	return NewTools(sess)
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (ToolResponse, *mcp.CallToolResult) {
	t.Helper()
	res, err := handler(context.Background(), request(args))
	require.NoError(t, err)
	var resp ToolResponse
	if !res.IsError {
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &resp))
	}
	return resp, res
}

func TestAddRemoveUndoRedo(t *testing.T) {
	tools := newTestTools(t)

	resp, res := call(t, tools.handleAddCard, map[string]any{"password": float64(23), "amount": float64(3)})
	require.False(t, res.IsError, resultText(t, res))
	require.NotNil(t, resp.Applied)
	assert.Equal(t, 3, *resp.Applied)
	assert.Equal(t, 3, resp.Deck.Parts[0].Count)

	resp, res = call(t, tools.handleRemoveCard, map[string]any{"password": float64(23), "amount": float64(5)})
	require.False(t, res.IsError)
	assert.Equal(t, 3, *resp.Applied)
	assert.Zero(t, resp.Deck.Parts[0].Count)

	resp, _ = call(t, tools.handleUndo, nil)
	require.NotNil(t, resp.Changed)
	assert.True(t, *resp.Changed)
	assert.Equal(t, 3, resp.Deck.Parts[0].Count)

	resp, _ = call(t, tools.handleRedo, nil)
	assert.True(t, *resp.Changed)
	resp, _ = call(t, tools.handleRedo, nil)
	assert.False(t, *resp.Changed)
}

func TestAddCardSide(t *testing.T) {
	tools := newTestTools(t)

	resp, res := call(t, tools.handleAddCard, map[string]any{"password": float64(2), "part": "side"})
	require.False(t, res.IsError)
	assert.Equal(t, 1, *resp.Applied)
	assert.Zero(t, resp.Deck.Parts[1].Count)
	assert.Equal(t, 1, resp.Deck.Parts[2].Count)
}

func TestEditRejectsBadArguments(t *testing.T) {
	tools := newTestTools(t)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing password", map[string]any{}},
		{"negative password", map[string]any{"password": float64(-4)}},
		{"unknown password", map[string]any{"password": float64(77)}},
		{"bad part", map[string]any{"password": float64(1), "part": "extra"}},
		{"zero amount", map[string]any{"password": float64(1), "amount": float64(0)}},
		{"amount too large", map[string]any{"password": float64(1), "amount": float64(256)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res := call(t, tools.handleAddCard, tt.args)
			assert.True(t, res.IsError)
		})
	}
}

func TestImportExportTools(t *testing.T) {
	tools := newTestTools(t)
	const text = "#main\n1\n23\n#extra\n2\n!side\n"

	resp, res := call(t, tools.handleImportYDK, map[string]any{"ydk": text})
	require.False(t, res.IsError, resultText(t, res))
	assert.Equal(t, 2, resp.Deck.Parts[0].Count)
	assert.False(t, resp.Deck.CanUndo)

	resp, res = call(t, tools.handleExportYDK, nil)
	require.False(t, res.IsError)
	assert.Equal(t, text, resp.YDK)

	_, res = call(t, tools.handleImportYDK, map[string]any{"ydk": "#main\n999999\n"})
	require.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "999999")

	_, res = call(t, tools.handleImportYDK, map[string]any{"ydk": "main\n"})
	require.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "could not parse input")
}

func TestGetDeckAndNewDeck(t *testing.T) {
	tools := newTestTools(t)
	call(t, tools.handleAddCard, map[string]any{"password": float64(1), "amount": float64(2)})

	resp, _ := call(t, tools.handleGetDeck, map[string]any{"events": float64(5)})
	assert.Equal(t, 2, resp.Deck.Parts[0].Count)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "Increment", resp.Events[0].Type)

	resp, _ = call(t, tools.handleNewDeck, nil)
	assert.Zero(t, resp.Deck.Parts[0].Count)
	assert.False(t, resp.Deck.CanUndo)
}

func TestSearchCards(t *testing.T) {
	tools := newTestTools(t)

	resp, res := call(t, tools.handleSearchCards, map[string]any{"name": "main"})
	require.False(t, res.IsError)
	require.Len(t, resp.Cards, 2)
	assert.Equal(t, "Main 1", resp.Cards[0].Name)

	resp, _ = call(t, tools.handleSearchCards, map[string]any{"name": "main", "limit": float64(1)})
	assert.Len(t, resp.Cards, 1)

	_, res = call(t, tools.handleSearchCards, nil)
	assert.True(t, res.IsError)
}

func TestToolDefinitions(t *testing.T) {
	s := server.NewMCPServer("deckbuilder", "test")
	newTestTools(t).Register(s)

	names := []string{}
	for _, tool := range []mcp.Tool{
		getDeckTool(), addCardTool(), removeCardTool(), undoTool(), redoTool(),
		newDeckTool(), importYDKTool(), exportYDKTool(), searchCardsTool(),
	} {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
	assert.Equal(t, []string{
		"get_deck", "add_card", "remove_card", "undo", "redo",
		"new_deck", "import_ydk", "export_ydk", "search_cards",
	}, names)
	assert.Contains(t, addCardTool().InputSchema.Required, "password")
}
