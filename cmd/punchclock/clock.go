package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/clock"
	"github.com/rpggio/punchclock/internal/timefmt"
)

func newClockInCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "in <employee-id>",
		Short: "Clock an employee in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, done, err := c.openApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer done()

			ev, err := a.Clock.ClockIn(cmd.Context(), args[0])
			var active *clock.AlreadyActiveError
			if errors.As(err, &active) && active.Event != nil {
				return fmt.Errorf("%s is already clocked in since %s", args[0],
					timefmt.FormatClockTime(a.Calendar.In(active.Event.ClockIn)))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s clocked in at %s\n", ev.EmployeeID, timefmt.FormatClockTime(a.Calendar.In(ev.ClockIn)))
			return nil
		},
	}
}

func newClockOutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "out <employee-id>",
		Short: "Clock an employee out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, done, err := c.openApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer done()

			ev, err := a.Clock.ClockOut(cmd.Context(), args[0])
			if errors.Is(err, clock.ErrNoActiveSession) {
				return fmt.Errorf("%s is not clocked in", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s clocked out at %s (%s)\n",
				ev.EmployeeID,
				timefmt.FormatClockTime(a.Calendar.In(*ev.ClockOut)),
				timefmt.FormatDuration(ev.ClockIn, *ev.ClockOut, a.Policy))
			return nil
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status [employee-id]",
		Short: "Show live activity for every employee, or one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, done, err := c.openApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer done()

			var (
				snaps []attendance.Snapshot
				open  *clock.Event
			)
			if len(args) == 1 {
				snap, err := a.Attendance.EmployeeStatus(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				snaps = []attendance.Snapshot{*snap}
				if open, err = a.Clock.Active(cmd.Context(), snap.EmployeeID); err != nil {
					return err
				}
			} else {
				snaps, err = a.Attendance.LiveActivity(cmd.Context())
				if err != nil {
					return err
				}
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), snaps)
			}
			if err := printSnapshots(cmd.OutOrStdout(), snaps); err != nil {
				return err
			}
			if open != nil && snaps[0].Status != attendance.StatusActive {
				fmt.Fprintf(cmd.OutOrStdout(), "session open since %s %s\n",
					open.Date, timefmt.FormatClockTime(a.Calendar.In(open.ClockIn)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printSnapshots(w io.Writer, snaps []attendance.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tTIME\tDURATION\tTODAY")
	for _, snap := range snaps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			snap.EmployeeID, snap.Name, snap.Status, snap.DisplayTime, snap.Duration, snap.SessionsToday)
	}
	return tw.Flush()
}
