package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/knotedit/pkg/errors"
	kio "github.com/matzehuels/knotedit/pkg/io"
	"github.com/matzehuels/knotedit/pkg/store"
)

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			rec, err := c.storeDocument(cmd.Context(), args[0], kio.FromGraph(cfg.NewGraph()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Created %s", StyleValue.Render(rec.Name))
			printDetail(out, "ID: %s", rec.ID)
			printNextStep(out, "Edit it with", appName+" edit "+rec.ID)
			return nil
		},
	}
}

// importCommand creates the "import" command.
func (c *CLI) importCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a JSON or YAML document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := kio.Import(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			rec, err := c.storeDocument(cmd.Context(), name, doc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Imported %s as %s", args[0], StyleValue.Render(rec.Name))
			printDetail(out, "ID: %s · %d nodes · %d edges", rec.ID, len(doc.Nodes), len(doc.Edges))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "document name (default: file name)")
	return cmd
}

// storeDocument validates name and stores doc as a new record.
func (c *CLI) storeDocument(ctx context.Context, name string, doc *kio.Document) (*store.Record, error) {
	if err := kerrors.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	data, err := kio.Marshal(doc)
	if err != nil {
		return nil, err
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	rec := store.NewRecord(name)
	rec.Data = data
	if err := st.Put(ctx, rec); err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("stored document", "id", rec.ID, "bytes", len(data))
	return rec, nil
}

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export DOCUMENT FILE",
		Short: "Write a stored document to a JSON or YAML file",
		Long:  "Write a stored document to a file. The format follows the extension (.json, .yaml or .yml).",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
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
			if err := kio.Export(doc, args[1]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "Exported %s", StyleValue.Render(rec.Name))
			printFile(out, args[1])
			return nil
		},
	}
}

// lsCommand creates the "ls" command.
func (c *CLI) lsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored documents, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				printInfo(out, "No documents")
				printNextStep(out, "Create one with", appName+" new NAME")
				return nil
			}
			fmt.Fprintln(out, documentTable(recs, time.Now()))
			return nil
		},
	}
}

// documentTable renders the records as a table. Records that fail to
// decode show "?" for their counts.
func documentTable(recs []*store.Record, now time.Time) string {
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		nodes, edges := "?", "?"
		if doc, err := kio.Unmarshal(rec.Data); err == nil {
			nodes, edges = strconv.Itoa(len(doc.Nodes)), strconv.Itoa(len(doc.Edges))
		}
		updated := formatRelativeTime(rec.UpdatedAt)
		if now.Sub(rec.UpdatedAt) < 0 {
			updated = rec.UpdatedAt.Local().Format(time.DateTime)
		}
		rows[i] = []string{rec.ID, rec.Name, nodes, edges, updated}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Nodes", "Edges", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 0:
				return StyleDim
			case col == 2 || col == 3:
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}

// rmCommand creates the "rm" command.
func (c *CLI) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm DOCUMENT...",
		Short: "Delete stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			for _, ref := range args {
				rec, err := findRecord(ctx, st, ref)
				if err != nil {
					return err
				}
				if err := st.Delete(ctx, rec.ID); err != nil {
					return err
				}
				printSuccess(out, "Deleted %s %s", StyleValue.Render(rec.Name), StyleDim.Render(rec.ID))
			}
			return nil
		},
	}
}
