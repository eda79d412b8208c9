// Package mcp exposes the edited deck as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/deck"
	"github.com/peterkuimelis/deckbuilder/internal/session"
	"github.com/peterkuimelis/deckbuilder/internal/ydk"
)

// defaultSearchLimit caps search_cards results when no limit is given.
const defaultSearchLimit = 25

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Deck    *session.DeckView   `json:"deck,omitempty"`
	Events  []session.EventView `json:"events,omitempty"`
	Applied *int                `json:"applied,omitempty"`
	Changed *bool               `json:"changed,omitempty"`
	YDK     string              `json:"ydk,omitempty"`
	Cards   []session.CardView  `json:"cards,omitempty"`
}

// Tools serves one session to an MCP client.
type Tools struct {
	sess *session.Session
}

// NewTools returns the tool set over sess.
func NewTools(sess *session.Session) *Tools {
	return &Tools{sess: sess}
}

// Register adds all deck tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(getDeckTool(), t.handleGetDeck)
	s.AddTool(addCardTool(), t.handleAddCard)
	s.AddTool(removeCardTool(), t.handleRemoveCard)
	s.AddTool(undoTool(), t.handleUndo)
	s.AddTool(redoTool(), t.handleRedo)
	s.AddTool(newDeckTool(), t.handleNewDeck)
	s.AddTool(importYDKTool(), t.handleImportYDK)
	s.AddTool(exportYDKTool(), t.handleExportYDK)
	s.AddTool(searchCardsTool(), t.handleSearchCards)
}

// --- Tool definitions ---

func cardEditOptions(verb string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("password", mcp.Required(), mcp.Description("Card password (the number printed on the card)")),
		mcp.WithString("part", mcp.Enum("playing", "side"), mcp.Description("Counter to "+verb+": 'playing' (main and extra deck, split by card type) or 'side'. Defaults to playing.")),
		mcp.WithNumber("amount", mcp.Description("Number of copies, 1-255. Defaults to 1.")),
	}
}

func getDeckTool() mcp.Tool {
	return mcp.NewTool("get_deck",
		mcp.WithDescription("Get the current deck split into main, extra and side with counts and bounds, plus recent events. Read-only."),
		mcp.WithNumber("events", mcp.Description("Number of recent events to include (default 10)")),
	)
}

func addCardTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Add copies of a card. Counts saturate at 255; the response reports how many were actually added."),
	}, cardEditOptions("add to")...)
	return mcp.NewTool("add_card", opts...)
}

func removeCardTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Remove copies of a card. Counts stop at 0; the response reports how many were actually removed."),
	}, cardEditOptions("remove from")...)
	return mcp.NewTool("remove_card", opts...)
}

func undoTool() mcp.Tool {
	return mcp.NewTool("undo",
		mcp.WithDescription("Undo the most recent deck edit."),
	)
}

func redoTool() mcp.Tool {
	return mcp.NewTool("redo",
		mcp.WithDescription("Redo the most recently undone deck edit. Any new edit discards the redo history."),
	)
}

func newDeckTool() mcp.Tool {
	return mcp.NewTool("new_deck",
		mcp.WithDescription("Replace the deck with an empty one and clear the edit history."),
	)
}

func importYDKTool() mcp.Tool {
	return mcp.NewTool("import_ydk",
		mcp.WithDescription("Replace the deck with a YDK deck list ('#main', '#extra' and '!side' headers, one card password per line). The edit history is cleared."),
		mcp.WithString("ydk", mcp.Required(), mcp.Description("Full YDK file contents")),
	)
}

func exportYDKTool() mcp.Tool {
	return mcp.NewTool("export_ydk",
		mcp.WithDescription("Export the deck as YDK text. Read-only."),
	)
}

func searchCardsTool() mcp.Tool {
	return mcp.NewTool("search_cards",
		mcp.WithDescription("Search the card catalog by case-insensitive name and/or card text substring. Read-only."),
		mcp.WithString("name", mcp.Description("Substring of the card name")),
		mcp.WithString("text", mcp.Description("Substring of the card text")),
		mcp.WithNumber("limit", mcp.Description(fmt.Sprintf("Maximum results (default %d)", defaultSearchLimit))),
	)
}

// --- Tool handlers ---

func (t *Tools) handleGetDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := request.GetInt("events", 10)
	return respond(&ToolResponse{
		Deck:   t.sess.View(),
		Events: t.sess.Events(n),
	}), nil
}

func (t *Tools) handleAddCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.edit(ctx, request, t.sess.Increment)
}

func (t *Tools) handleRemoveCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.edit(ctx, request, t.sess.Decrement)
}

func (t *Tools) edit(ctx context.Context, request mcp.CallToolRequest,
	op func(context.Context, uint32, deck.PartType, int) (uint8, error)) (*mcp.CallToolResult, error) {
	password := request.GetInt("password", -1)
	if password < 0 || int64(password) > int64(^uint32(0)) {
		return mcp.NewToolResultErrorf("Invalid password %d.", password), nil
	}
	part, err := deck.ParsePartType(request.GetString("part", "playing"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	amount := request.GetInt("amount", 1)

	applied, err := op(ctx, uint32(password), part, amount)
	if err != nil {
		return mcp.NewToolResultErrorf("Edit failed: %v", err), nil
	}
	n := int(applied)
	return respond(&ToolResponse{
		Deck:    t.sess.View(),
		Applied: &n,
	}), nil
}

func (t *Tools) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.history(ctx, t.sess.Undo)
}

func (t *Tools) handleRedo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.history(ctx, t.sess.Redo)
}

func (t *Tools) history(ctx context.Context, op func(context.Context) (bool, error)) (*mcp.CallToolResult, error) {
	changed, err := op(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Could not save deck: %v", err), nil
	}
	return respond(&ToolResponse{
		Deck:    t.sess.View(),
		Changed: &changed,
	}), nil
}

func (t *Tools) handleNewDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := t.sess.Reset(ctx); err != nil {
		return mcp.NewToolResultErrorf("Could not save deck: %v", err), nil
	}
	return respond(&ToolResponse{Deck: t.sess.View()}), nil
}

func (t *Tools) handleImportYDK(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("ydk", "")
	if err := t.sess.ImportYDK(ctx, text, "mcp"); err != nil {
		var unknown *ydk.UnknownIDError
		if errors.As(err, &unknown) {
			return mcp.NewToolResultErrorf("Import failed: card %d is not in the catalog.", unknown.ID), nil
		}
		return mcp.NewToolResultErrorf("Import failed: %v", err), nil
	}
	return respond(&ToolResponse{Deck: t.sess.View()}), nil
}

func (t *Tools) handleExportYDK(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := t.sess.ExportYDK()
	if err != nil {
		return mcp.NewToolResultErrorf("Export failed: %v", err), nil
	}
	return respond(&ToolResponse{YDK: text}), nil
}

func (t *Tools) handleSearchCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := catalog.Filter{
		Name: request.GetString("name", ""),
		Text: request.GetString("text", ""),
	}
	if filter.Name == "" && filter.Text == "" {
		return mcp.NewToolResultError("Give a name or text to search for."), nil
	}
	limit := request.GetInt("limit", defaultSearchLimit)
	cards := t.sess.Search(filter, limit)
	if cards == nil {
		cards = []session.CardView{}
	}
	return respond(&ToolResponse{Cards: cards}), nil
}

// respond marshals a ToolResponse into a text result.
func respond(resp *ToolResponse) *mcp.CallToolResult {
	data, err := json.Marshal(resp)
	if err != nil {
		return mcp.NewToolResultErrorf("marshal error: %v", err)
	}
	return mcp.NewToolResultText(string(data))
}
