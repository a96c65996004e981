package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ctmcfit/ctmc"
	"github.com/katalvlaran/ctmcfit/internal/store"
	"github.com/katalvlaran/ctmcfit/matrix"
)

func (a *app) newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved runs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return a.withStore(func(s store.Store) error {
				runs, err := s.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if runs == nil {
					runs = []store.Run{}
				}
				return printJSON(cmd.OutOrStdout(), runs)
			})
		},
	}
	list.Flags().IntP("limit", "l", 20, "Maximum runs to show (0 for all)")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s store.Store) error {
				run, err := s.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), run)
			})
		},
	}

	project := &cobra.Command{
		Use:   "project ID",
		Short: "Recompute the transition matrix of a saved run for another interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _ := cmd.Flags().GetFloat64("interval")
			steps, _ := cmd.Flags().GetInt("steps")
			useSteps := cmd.Flags().Changed("steps")
			if useSteps && cmd.Flags().Changed("interval") {
				return fmt.Errorf("--interval and --steps are mutually exclusive")
			}
			return a.withStore(func(s store.Store) error {
				run, err := s.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				res, err := run.Result()
				if err != nil {
					return err
				}
				var p *matrix.Dense
				if useSteps {
					t = float64(steps) * res.TransIntv
					p, err = res.Steps(steps)
				} else {
					p, err = res.Project(t)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), struct {
					ID        string        `json:"id"`
					TransIntv float64       `json:"transintv"`
					TransMat  *matrix.Dense `json:"transmat"`
				}{run.ID, t, p})
			})
		},
	}
	project.Flags().Float64P("interval", "t", ctmc.DefaultTransIntv, "Interval Δt")
	project.Flags().IntP("steps", "k", 0, "Chain the saved transition matrix k times instead of re-exponentiating")

	classify := &cobra.Command{
		Use:   "classify ID",
		Short: "Report absorbing and transient states of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s store.Store) error {
				run, err := s.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				c, err := ctmc.Classify(run.GenMat)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), c)
			})
		},
	}

	stationary := &cobra.Command{
		Use:   "stationary ID",
		Short: "Print the long-run state distribution of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s store.Store) error {
				run, err := s.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				pi, err := ctmc.Stationary(run.GenMat)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), struct {
					ID         string    `json:"id"`
					Labels     []string  `json:"labels,omitempty"`
					Stationary []float64 `json:"stationary"`
				}{run.ID, run.Labels, pi})
			})
		},
	}

	cmd.AddCommand(list, show, project, classify, stationary)
	return cmd
}

// withStore opens the configured store for the duration of fn.
func (a *app) withStore(fn func(s store.Store) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	s, err := a.openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
