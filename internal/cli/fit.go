package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ctmcfit/ctmc"
	"github.com/katalvlaran/ctmcfit/internal/config"
	"github.com/katalvlaran/ctmcfit/internal/metrics"
	"github.com/katalvlaran/ctmcfit/internal/store"
)

func (a *app) newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Estimate genmat and transmat from a dataset",
		Args:  cobra.NoArgs,
		RunE:  a.runFit,
	}

	cmd.Flags().String("data", "", "YAML dataset file")
	cmd.Flags().String("panel", "", "CSV panel (id,date,label) to transform first")
	cmd.Flags().StringSlice("labels", nil, "State labels for --panel, best to worst (overrides config)")
	cmd.Flags().Bool("subject-end", false, "End each subject's last --panel spell at its own last observation")
	cmd.Flags().String("policy", "", "Validation policy: strict or tolerant")
	cmd.Flags().Float64("interval", 0, "Interval Δt of the transition matrix")
	cmd.Flags().Float64("toltime", 0, "Smallest usable duration")
	cmd.Flags().Bool("no-checks", false, "Skip DataCheck and ErrorCheck (strict policy)")
	cmd.Flags().String("diagnostics", "", "Warning handling: collect, raise or silent")
	cmd.Flags().Int("workers", 0, "Aggregation workers")
	cmd.Flags().Bool("save", false, "Persist the run to the database")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics for this run to a textfile")

	return cmd
}

// applyFitFlags overrides the fit section with the flags the user set.
func applyFitFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.Fit.Policy, _ = flags.GetString("policy")
	}
	if flags.Changed("interval") {
		cfg.Fit.TransIntv, _ = flags.GetFloat64("interval")
	}
	if flags.Changed("toltime") {
		cfg.Fit.TolTime, _ = flags.GetFloat64("toltime")
	}
	if flags.Changed("no-checks") {
		off, _ := flags.GetBool("no-checks")
		cfg.Fit.Checks = !off
	}
	if flags.Changed("diagnostics") {
		cfg.Fit.Diagnostics, _ = flags.GetString("diagnostics")
	}
	if flags.Changed("workers") {
		cfg.Fit.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("subject-end") {
		cfg.Panel.SubjectEnd, _ = flags.GetBool("subject-end")
	}
	if flags.Changed("labels") {
		cfg.Panel.Labels, _ = flags.GetStringSlice("labels")
	}
	return cfg.Validate()
}

func (a *app) runFit(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := applyFitFlags(cmd, cfg); err != nil {
		return err
	}
	logger, err := a.logger(cmd, cfg)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts = append(opts, ctmc.WithLogger(logger))

	dataPath, _ := cmd.Flags().GetString("data")
	panelPath, _ := cmd.Flags().GetString("panel")
	in, err := loadInput(dataPath, panelPath, cfg.Panel)
	if err != nil {
		return err
	}

	logger.Debug("fitting",
		slog.Int("examples", len(in.data)),
		slog.Int("numstates", in.numstates),
		slog.String("policy", cfg.Fit.Policy))

	start := time.Now()
	res, err := ctmc.Estimate(in.data, in.numstates, opts...)
	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		policy, _ := ctmc.ParsePolicy(cfg.Fit.Policy)
		rec := metrics.NewRecorder()
		rec.ObserveFit(policy, len(in.data), in.numstates, time.Since(start), res, err)
		if werr := rec.WriteFile(path); werr != nil {
			logger.Error("write metrics", slog.String("path", path), slog.Any("error", werr))
		}
	}
	if err != nil {
		return err
	}

	run := store.RunFromResult(res, in.labels)
	if save, _ := cmd.Flags().GetBool("save"); save {
		s, err := a.openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Save(cmd.Context(), run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.Info("run saved", slog.String("id", run.ID))
	}

	return printJSON(cmd.OutOrStdout(), run)
}

func (a *app) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a dataset without estimating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := applyFitFlags(cmd, cfg); err != nil {
				return err
			}
			dataPath, _ := cmd.Flags().GetString("data")
			panelPath, _ := cmd.Flags().GetString("panel")
			in, err := loadInput(dataPath, panelPath, cfg.Panel)
			if err != nil {
				return err
			}
			if err := ctmc.DataCheck(in.data, in.numstates, cfg.Fit.TolTime); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d examples, %d states\n", len(in.data), in.numstates)
			return err
		},
	}

	cmd.Flags().String("data", "", "YAML dataset file")
	cmd.Flags().String("panel", "", "CSV panel (id,date,label) to transform first")
	cmd.Flags().StringSlice("labels", nil, "State labels for --panel (overrides config)")
	cmd.Flags().Bool("subject-end", false, "End each subject's last --panel spell at its own last observation")
	cmd.Flags().Float64("toltime", 0, "Smallest usable duration")

	return cmd
}
