// Package cli implements the deckbuilder command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/config"
	"github.com/peterkuimelis/deckbuilder/internal/log"
	"github.com/peterkuimelis/deckbuilder/internal/session"
	"github.com/peterkuimelis/deckbuilder/internal/store"
)

// NewRootCmd builds the deckbuilder command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "deckbuilder",
		Short: "Build and edit trading card decks",
		Long: `deckbuilder edits one deck at a time, with undo and redo, and keeps it in a
local SQLite file between runs. Decks move in and out as YDK files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default ~/.deckbuilder/config.toml)")
	root.PersistentFlags().String("catalog", "", "card catalog, binary or YAML (overrides config)")
	root.PersistentFlags().String("db", "", "deck database file (overrides config)")
	root.PersistentFlags().String("key", "", "name of the deck being edited (overrides config)")

	root.AddCommand(CatalogCmd())
	root.AddCommand(DeckCmd())
	return root
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.Catalog.Path = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Store.Path = v
	}
	if v, _ := cmd.Flags().GetString("key"); v != "" {
		cfg.Store.Key = v
	}
	return cfg, nil
}

// loadCatalog opens the configured card catalog.
func loadCatalog(cmd *cobra.Command) (*catalog.Data, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return cat, cfg, nil
}

// openSession restores the deck under the configured key. Deck events are
// echoed to stderr as they happen. The caller closes the returned store.
func openSession(ctx context.Context, cmd *cobra.Command) (*session.Session, *store.Store, error) {
	cat, cfg, err := loadCatalog(cmd)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(ctx, store.DefaultConfig(cfg.Store.Path))
	if err != nil {
		return nil, nil, err
	}

	sess, err := session.Open(ctx, session.Options{
		Catalog: cat,
		Store:   st,
		Key:     cfg.Store.Key,
		Events:  log.NewTextLogger(cmd.ErrOrStderr()),
		Logger:  cfg.NewLogger(cmd.ErrOrStderr(), "deckbuilder"),
	})
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return sess, st, nil
}
