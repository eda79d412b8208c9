package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/config"
	deckmcp "github.com/peterkuimelis/deckbuilder/internal/mcp"
	"github.com/peterkuimelis/deckbuilder/internal/session"
	"github.com/peterkuimelis/deckbuilder/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.deckbuilder/config.toml)")
	key := flag.String("key", "", "deck to edit (overrides config)")
	flag.Parse()

	if err := run(*configPath, *key); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, key string) error {
	if configPath == "" {
		var err error
		if configPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if key != "" {
		cfg.Store.Key = key
	}
	// stdout carries the MCP protocol; everything else goes to stderr.
	logger := cfg.NewLogger(os.Stderr, "mcp")
	ctx := context.Background()

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, store.DefaultConfig(cfg.Store.Path))
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := session.Open(ctx, session.Options{
		Catalog: cat,
		Store:   st,
		Key:     cfg.Store.Key,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	s := server.NewMCPServer(cfg.MCP.Name, "1.0.0")
	deckmcp.NewTools(sess).Register(s)
	logger.Info("serving MCP on stdio", "deck", cfg.Store.Key, "cards", cat.Len())
	return server.ServeStdio(s)
}
