package cli

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/ctmcfit/ctmc"
)

func (a *app) newTransformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Turn a panel CSV into a YAML dataset",
		Long: "transform reads id,date,label rows, sorts them per subject, collapses " +
			"repeated ratings and writes the resulting sequences with year-fraction durations.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			pc := cfg.Panel
			if cmd.Flags().Changed("labels") {
				pc.Labels, _ = cmd.Flags().GetStringSlice("labels")
			}
			if cmd.Flags().Changed("subject-end") {
				pc.SubjectEnd, _ = cmd.Flags().GetBool("subject-end")
			}
			path, _ := cmd.Flags().GetString("panel")

			p, enc, err := loadPanel(path, pc)
			if err != nil {
				return err
			}
			return ctmc.WriteDataset(cmd.OutOrStdout(), &ctmc.DatasetFile{
				NumStates: enc.Len(),
				Labels:    enc.Labels(),
				Examples:  p.Data,
			})
		},
	}

	cmd.Flags().String("panel", "", "CSV panel (id,date,label) (required)")
	cmd.Flags().StringSlice("labels", nil, "State labels, best to worst (overrides config)")
	cmd.Flags().Bool("subject-end", false, "End each subject's last spell at its own last observation")
	cmd.MarkFlagRequired("panel")

	return cmd
}
