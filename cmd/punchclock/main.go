package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpggio/punchclock/internal/app"
	"github.com/rpggio/punchclock/internal/config"
	"github.com/rpggio/punchclock/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	configPath string
	dbPath     string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "punchclock",
		Short:        "Employee time tracking: clock in/out, live activity and timesheets",
		Version:      app.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.loadConfig()
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file (default $"+config.PathEnv+")")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite database path (overrides config)")

	root.AddCommand(
		newServeCmd(c),
		newClockInCmd(c),
		newClockOutCmd(c),
		newStatusCmd(c),
		newUsersCmd(c),
		newImportCmd(c),
		newExportCmd(c),
		newAPIKeyCmd(c),
	)
	return root
}

func (c *cli) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.dbPath != "" {
		cfg.DB.Path = c.dbPath
	}
	c.cfg = cfg
	return nil
}

// openApp builds the logger and opens the database. The returned func
// closes both.
func (c *cli) openApp(ctx context.Context, logWriter io.Writer) (*app.App, func(), error) {
	logger, logCloser, err := logging.New(c.cfg.Log, logWriter)
	if err != nil {
		return nil, nil, fmt.Errorf("log setup: %w", err)
	}
	a, err := app.Open(ctx, c.cfg, logger)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}
	return a, func() {
		if err := a.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
		_ = logCloser.Close()
	}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
