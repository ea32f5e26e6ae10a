package cli

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/knotedit/pkg/editor"
	kio "github.com/matzehuels/knotedit/pkg/io"
)

// editCommand creates the interactive edit command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit DOCUMENT",
		Short: "Edit a stored document interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := findRecord(ctx, st, args[0])
			if err != nil {
				return err
			}
			doc, err := kio.Unmarshal(rec.Data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", rec.ID, err)
			}

			// The program owns the terminal, so editor logs are dropped.
			logger := loggerFromContext(ctx)
			ed := editor.New(cfg.NewGraph(),
				editor.WithLogger(log.New(io.Discard)),
				editor.WithUndoLimit(cfg.History.UndoLimit))
			if err := ed.Load(doc); err != nil {
				return err
			}
			if err := ed.ClearHistory(); err != nil {
				return err
			}

			save := func() error {
				data, err := kio.Marshal(ed.Document())
				if err != nil {
					return err
				}
				rec.Data = data
				rec.UpdatedAt = time.Now().UTC()
				if err := st.Put(ctx, rec); err != nil {
					return err
				}
				ed.MarkSaved()
				return nil
			}

			p := tea.NewProgram(NewEditModel(ed, rec.Name, save), tea.WithContext(ctx), tea.WithAltScreen())
			modified, err := editSession(ed, func() error {
				_, err := p.Run()
				return err
			})
			if err != nil {
				return err
			}
			if modified {
				printWarning(cmd.OutOrStdout(), "Discarded unsaved changes to %s", rec.Name)
			}
			logger.Debug("edit session ended", "id", rec.ID, "entries", ed.History().Count())
			return nil
		},
	}
}

// editSession runs the program over ed. The editor is closed when the
// program exits, committing any transaction or drag it left open.
func editSession(ed *editor.Editor, run func() error) (modified bool, err error) {
	defer ed.Close()
	if err := run(); err != nil {
		return false, err
	}
	ed.Close()
	return ed.Modified(), nil
}
