package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/knotedit/pkg/buildinfo"
	"github.com/matzehuels/knotedit/pkg/config"
	kerrors "github.com/matzehuels/knotedit/pkg/errors"
	kio "github.com/matzehuels/knotedit/pkg/io"
	"github.com/matzehuels/knotedit/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "knotedit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "knotedit edits knot diagrams with full undo history",
		Long: `knotedit is a CLI tool for building knot diagrams out of nodes and edges.
Every edit is undoable, documents are kept in a local or shared store, and
diagrams can be rendered to DOT, SVG, PDF or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			} else if cfg, err := c.config(); err == nil {
				// An unreadable config is reported by the commands that need it.
				if level, err := cfg.LogLevel(); err == nil {
					c.SetLogLevel(level)
				}
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/knotedit/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.lsCommand())
	root.AddCommand(c.rmCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Store
// =============================================================================

func (c *CLI) configPath() (string, error) {
	if c.ConfigPath != "" {
		return c.ConfigPath, nil
	}
	return config.DefaultPath()
}

// config loads the configuration once.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path, err := c.configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// openStore opens the configured document store. Callers close it.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	loggerFromContext(ctx).Debug("opened store", "backend", cfg.Store.Backend)
	return st, nil
}

// =============================================================================
// Document Lookup
// =============================================================================

var (
	errNoDocument        = errors.New("no such document")
	errAmbiguousDocument = errors.New("document name is ambiguous")
)

// findRecord resolves ref, either a document ID or a unique document name.
func findRecord(ctx context.Context, st store.Store, ref string) (*store.Record, error) {
	if kerrors.ValidateDocumentID(ref) == nil {
		rec, err := st.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("%w: %s", errNoDocument, ref)
		}
		return rec, nil
	}

	recs, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	var found *store.Record
	for _, rec := range recs {
		if rec.Name != ref {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %q (use the ID)", errAmbiguousDocument, ref)
		}
		found = rec
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", errNoDocument, ref)
	}
	return found, nil
}

// loadDocument returns the document at path when it is a readable file,
// or else the stored document ref names.
func (c *CLI) loadDocument(ctx context.Context, ref string) (*kio.Document, string, error) {
	if _, err := os.Stat(ref); err == nil {
		doc, err := kio.Import(ref)
		if err != nil {
			return nil, "", err
		}
		return doc, strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref)), nil
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return nil, "", err
	}
	defer st.Close()

	rec, err := findRecord(ctx, st, ref)
	if err != nil {
		return nil, "", err
	}
	doc, err := kio.Unmarshal(rec.Data)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", rec.ID, err)
	}
	return doc, rec.Name, nil
}
