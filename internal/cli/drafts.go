package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicsheet/pkg/drafts"
	"github.com/matzehuels/topicsheet/pkg/errors"
	sheetio "github.com/matzehuels/topicsheet/pkg/io"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

// draftsCommand creates the drafts management command.
func (c *CLI) draftsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage saved drafts",
		Long: `Manage saved drafts.

Drafts are stored per owner. The CLI owner ID is kept in
~/.config/topicsheet/owner; the web form uses a cookie instead, so drafts
saved in the browser are not visible here unless both share a store and an
owner.`,
	}

	cmd.AddCommand(c.draftsListCommand())
	cmd.AddCommand(c.draftsShowCommand())
	cmd.AddCommand(c.draftsSaveCommand())
	cmd.AddCommand(c.draftsExportCommand())
	cmd.AddCommand(c.draftsDeleteCommand())
	cmd.AddCommand(c.draftsPickCommand())

	return cmd
}

// withDrafts opens the draft store for the duration of fn.
func (c *CLI) withDrafts(ctx context.Context, fn func(store drafts.Store, owner string) error) error {
	store, owner, err := c.openDrafts(ctx)
	if err != nil {
		return fmt.Errorf("open draft store: %w", err)
	}
	defer store.Close()
	return fn(store, owner)
}

// draftsListCommand creates the "drafts list" subcommand.
func (c *CLI) draftsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved drafts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withDrafts(ctx, func(store drafts.Store, owner string) error {
				list, err := store.List(ctx, owner)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo("No saved drafts")
					return nil
				}
				fmt.Fprintln(statusOut, draftTable(list, -1))
				return nil
			})
		},
	}
}

// draftsShowCommand creates the "drafts show" subcommand.
func (c *CLI) draftsShowCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the fields of a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withDrafts(ctx, func(store drafts.Store, owner string) error {
				f, err := draftFields(ctx, store, owner, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(statusOut, StyleTitle.Render(f.Name))
				for _, key := range sheet.Keys() {
					value := f.Fields.Get(key)
					if value == "" && !all {
						continue
					}
					printKeyValue(key, value)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include empty fields")
	return cmd
}

// draftsSaveCommand creates the "drafts save" subcommand.
func (c *CLI) draftsSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save NAME FILE",
		Short: "Save a sheet file as a draft",
		Long: `Save the fields of a YAML, JSON or TOML sheet file as a draft. A draft with
the same name is replaced. The name stored in the file is ignored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := sheetio.ImportFile(args[1])
			if err != nil {
				return err
			}
			return c.withDrafts(ctx, func(store drafts.Store, owner string) error {
				d, err := drafts.Save(ctx, store, owner, args[0], f.Fields)
				if err != nil {
					return err
				}
				printSuccess("Draft '%s' saved successfully.", d.Name)
				printDetail("%d fields", len(d.Fields))
				printNewline()
				printNextStep("Render", fmt.Sprintf("%s render --draft %q", appName, d.Name))
				return nil
			})
		},
	}
}

// draftsExportCommand creates the "drafts export" subcommand.
func (c *CLI) draftsExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Write a draft as a sheet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withDrafts(ctx, func(store drafts.Store, owner string) error {
				f, err := draftFields(ctx, store, owner, args[0])
				if err != nil {
					return err
				}
				if output == "" {
					return sheetio.WriteFile(f, c.Out, sheetio.FormatYAML)
				}
				if err := sheetio.ExportFile(f, output); err != nil {
					return err
				}
				printSuccess("Exported draft '%s'", f.Name)
				printFile(output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.yaml, .json, .toml); default: YAML on stdout")
	return cmd
}

// draftsDeleteCommand creates the "drafts delete" subcommand.
func (c *CLI) draftsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a draft",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateDraftName(args[0]); err != nil {
				return err
			}
			return c.withDrafts(ctx, func(store drafts.Store, owner string) error {
				if err := store.Delete(ctx, owner, args[0]); err != nil {
					return err
				}
				printSuccess("Draft '%s' has been deleted.", args[0])
				return nil
			})
		},
	}
}

// draftsPickCommand creates the "drafts pick" subcommand.
func (c *CLI) draftsPickCommand() *cobra.Command {
	o := renderOpts{jobs: 1}
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a draft interactively and render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var list []drafts.Summary
			err := c.withDrafts(ctx, func(store drafts.Store, owner string) error {
				var err error
				list, err = store.List(ctx, owner)
				return err
			})
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No saved drafts")
				return nil
			}

			final, err := tea.NewProgram(NewDraftListModel(list), tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run()
			if err != nil {
				return fmt.Errorf("draft picker: %w", err)
			}
			m, ok := final.(DraftListModel)
			if !ok || m.Selected == nil {
				return nil
			}
			o.draft = m.Selected.Name
			return c.runRender(ctx, "", &o)
		},
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file or base path")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): pdf (default), json, svg")
	cmd.Flags().BoolVar(&o.summaryOnly, "summary-only", false, "render a single page with only the header band")
	return cmd
}
