package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpggio/punchclock/internal/domain/attendance"
	"github.com/rpggio/punchclock/internal/domain/employee"
)

func newUsersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the user table",
	}
	cmd.AddCommand(newUsersAddCmd(c), newUsersListCmd(c))
	return cmd
}

func newUsersAddCmd(c *cli) *cobra.Command {
	var req employee.RegisterRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("PUNCHCLOCK_PASSWORD")
			}
			a, done, err := c.openApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer done()

			emp, err := a.Employees.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s, employee id %s\n", emp.Name, emp.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name (required, unique)")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (default $PUNCHCLOCK_PASSWORD)")
	cmd.Flags().StringVar(&req.EmployeeID, "id", "", "employee id, e.g. EMP001")
	cmd.Flags().StringVar(&req.Email, "email", "", "email (unique)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Position, "position", "", "job title")
	cmd.Flags().StringVar(&req.Role, "role", "", "role")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newUsersListCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees in user table order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, done, err := c.openApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer done()

			emps, err := a.Employees.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), emps)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPOSITION\tROLE")
			for i, emp := range emps {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					attendance.EffectiveID(emp, i), emp.Name, emp.Email, emp.Position, emp.Role)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
