package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterkuimelis/deckbuilder/internal/catalog"
	"github.com/peterkuimelis/deckbuilder/internal/config"
	"github.com/peterkuimelis/deckbuilder/internal/log"
	"github.com/peterkuimelis/deckbuilder/internal/session"
	"github.com/peterkuimelis/deckbuilder/internal/store"
	"github.com/peterkuimelis/deckbuilder/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.deckbuilder/config.toml)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
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
	if addr != "" {
		cfg.Web.Addr = addr
	}
	logger := cfg.NewLogger(os.Stderr, "web")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", "path", cfg.Catalog.Path, "cards", cat.Len())

	st, err := store.Open(ctx, store.DefaultConfig(cfg.Store.Path))
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := session.Open(ctx, session.Options{
		Catalog: cat,
		Store:   st,
		Key:     cfg.Store.Key,
		Events:  log.NewTextLogger(os.Stdout),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	return web.NewServer(sess, logger).ListenAndServe(ctx, cfg.Web.Addr)
}
