// Package cli implements the ctmcfit CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ctmcfit/internal/config"
	"github.com/katalvlaran/ctmcfit/internal/store"
)

// app carries the global flags shared by every subcommand.
type app struct {
	configPath string
	dbPath     string
	logLevel   string
}

// NewRootCmd builds the top-level command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ctmcfit",
		Short: "Estimate continuous-time Markov chains from event sequences",
		Long: "ctmcfit estimates the generator and transition matrix of a CTMC from " +
			"observed state sequences with dwell times, and keeps fitted runs in SQLite.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVarP(&a.dbPath, "db", "d", "", "Database path (default: $CTMCFIT_DB or ~/.ctmcfit/runs.db)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	root.AddCommand(
		a.newFitCmd(),
		a.newCheckCmd(),
		a.newTransformCmd(),
		a.newRunsCmd(),
	)
	return root
}

// loadConfig reads --config over the defaults.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	return cfg, nil
}

// logger writes to stderr so JSON on stdout stays parseable.
func (a *app) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	l, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return l.With(slog.String("component", "ctmc")), nil
}

func (a *app) getDBPath(cfg *config.Config) string {
	if a.dbPath != "" {
		return a.dbPath
	}
	if env := os.Getenv("CTMCFIT_DB"); env != "" {
		return env
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ctmcfit", "runs.db")
}

func (a *app) openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(a.getDBPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
