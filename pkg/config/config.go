// Package config loads the knotedit configuration file.
//
// The file is TOML, by default at $XDG_CONFIG_HOME/knotedit/config.toml:
//
//	[history]
//	undo_limit = 200
//
//	[style.node]
//	cusp_angle = 225
//
//	[display]
//	width = 5
//	join = "round"
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "debug"
//
// Keys left out keep their defaults. A missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	kerrors "github.com/matzehuels/knotedit/pkg/errors"
	"github.com/matzehuels/knotedit/pkg/graph"
	"github.com/matzehuels/knotedit/pkg/store"
	"github.com/matzehuels/knotedit/pkg/style"
)

// Config is the complete configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
	Style   StyleConfig   `toml:"style"`
	Display style.Display `toml:"display"`
	Store   store.Config  `toml:"store"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// HistoryConfig configures the undo history.
type HistoryConfig struct {
	// UndoLimit caps the number of undo steps. Zero keeps everything.
	UndoLimit int `toml:"undo_limit"`
}

// StyleConfig holds the style defaults of new documents.
type StyleConfig struct {
	Node style.NodeStyle `toml:"node"`
	Edge style.EdgeStyle `toml:"edge"`
}

// ServerConfig configures `knotedit serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// ShutdownSeconds bounds the graceful shutdown.
	ShutdownSeconds int `toml:"shutdown_seconds"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{UndoLimit: 0},
		Style: StyleConfig{
			Node: style.DefaultNodeStyle(),
			Edge: style.DefaultEdgeStyle(),
		},
		Display: style.DefaultDisplay(),
		Store:   store.DefaultConfig(),
		Server:  ServerConfig{Addr: "localhost:8080", ShutdownSeconds: 10},
		Log:     LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/knotedit/config.toml, falling back
// to ~/.config/knotedit/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "knotedit", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "knotedit", "config.toml"), nil
}

// Load reads the file at path on top of the defaults and validates the
// result. A missing file yields the defaults. Unknown keys are an error, so
// typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "read config")
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, kerrors.New(kerrors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("write config file: %w", err)
	}
	return f.Close()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.History.UndoLimit < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "history.undo_limit must not be negative")
	}
	if c.Display.Width <= 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "display.width must be positive")
	}
	if len(c.Display.Colors) == 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "display.colors needs at least one color")
	}
	if s := c.Style.Edge.EdgeSlide; s < 0 || s > 1 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "style.edge.edge_slide must be within [0, 1]")
	}
	switch strings.ToLower(c.Store.Backend) {
	case store.BackendMemory, store.BackendFile, store.BackendRedis, store.BackendMongo:
	default:
		return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, store.ErrUnknownBackend, "store.backend %q", c.Store.Backend)
	}
	if c.Server.ShutdownSeconds < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "server.shutdown_seconds must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(c.Log.Level)
}

// NewGraph returns an empty graph carrying the configured style defaults.
func (c *Config) NewGraph() *graph.Graph {
	g := graph.New()
	g.NodeStyle = c.Style.Node
	g.EdgeStyle = c.Style.Edge
	g.Display = c.Display.Clone()
	return g
}
