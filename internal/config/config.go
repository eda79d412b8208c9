// Package config loads and saves the deckbuilder settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// Config holds every configurable setting.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Store   StoreConfig   `toml:"store"`
	Web     WebConfig     `toml:"web"`
	MCP     MCPConfig     `toml:"mcp"`
	Log     LogConfig     `toml:"log"`
}

type CatalogConfig struct {
	Path string `toml:"path"` // cards.bin.xz or a YAML card list
}

type StoreConfig struct {
	Path string `toml:"path"` // SQLite database file
	Key  string `toml:"key"`  // row holding the current deck
}

type WebConfig struct {
	Addr string `toml:"addr"` // listen address
}

type MCPConfig struct {
	Name string `toml:"name"` // server name reported to clients
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{Path: "cards.bin.xz"},
		Store:   StoreConfig{Path: "deckbuilder.db", Key: "current"},
		Web:     WebConfig{Addr: ":8080"},
		MCP:     MCPConfig{Name: "deckbuilder"},
		Log:     LogConfig{Level: "info"},
	}
}

// DefaultPath returns ~/.deckbuilder/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".deckbuilder", "config.toml"), nil
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults; keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return errors.New("catalog path cannot be empty")
	}
	if c.Store.Path == "" {
		return errors.New("store path cannot be empty")
	}
	if c.Store.Key == "" {
		return errors.New("store key cannot be empty")
	}
	if c.Web.Addr == "" {
		return errors.New("web address cannot be empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

// NewLogger returns a process logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(c.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
