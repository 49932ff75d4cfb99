package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpggio/punchclock/internal/app"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/memstore"
	"github.com/rpggio/punchclock/internal/report"
)

func newImportCmd(c *cli) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <events.json>",
		Short: "Import clock events from a JSON array",
		Long: "Import clock events from a JSON array of {id, employeeId, date, clockIn, clockOut}.\n" +
			"Use - to read standard input.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raws, err := readRawEvents(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			a, done, err := c.openApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer done()

			guard := a.Clock
			if dryRun {
				guard, err = dryRunGuard(cmd, a)
				if err != nil {
					return err
				}
			}
			rep, err := guard.Import(cmd.Context(), raws)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintln(cmd.ErrOrStderr(), "dry run: nothing was written")
			}
			return printJSON(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be imported without writing")
	return cmd
}

func readRawEvents(stdin io.Reader, path string) ([]clock.RawEvent, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	var raws []clock.RawEvent
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return raws, nil
}

// dryRunGuard returns a guard over an in-memory copy of the stored events.
func dryRunGuard(cmd *cobra.Command, a *app.App) (*clock.Guard, error) {
	stored, err := a.Events.ListAll(cmd.Context())
	if err != nil {
		return nil, err
	}
	store := memstore.New()
	events := store.Events()
	for _, raw := range stored {
		if err := events.Append(cmd.Context(), raw); err != nil {
			return nil, fmt.Errorf("copy event %q: %w", raw.ID, err)
		}
	}
	return clock.NewGuard(events, nil, a.Logger(), clock.WithLocation(a.Calendar.Location)), nil
}

func newExportCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the timesheet workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, done, err := c.openApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer done()

			board, err := a.Attendance.Board(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = report.FileName(a.Calendar.Day(board.Now))
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.WriteTimesheet(f, report.FromBoard(board, a.Calendar, a.Policy)); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default timesheet-YYYY-MM-DD.xlsx)")
	return cmd
}

func newAPIKeyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys for the HTTP and MCP endpoints",
	}

	var label string
	add := &cobra.Command{
		Use:   "add [key]",
		Short: "Store an API key, generating one when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := "pc_" + uuid.NewString()
			if len(args) == 1 {
				key = args[0]
			}
			a, done, err := c.openApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer done()

			if err := a.Keys.Add(cmd.Context(), key, label); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	add.Flags().StringVar(&label, "label", "cli", "caller label recorded with the key")
	cmd.AddCommand(add)
	return cmd
}
