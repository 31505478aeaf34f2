package cli

import (
	"github.com/spf13/cobra"

	"github.com/mkelk/mmm-experiments/pkg/dataset"
)

func newSimulateCmd() *cobra.Command {
	gen := dataset.DefaultSyntheticConfig()
	out := "observations.csv"

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a synthetic observation table with a known generating process",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := dataset.Synthetic(gen)
			if err != nil {
				return err
			}
			if err := table.WriteCSV(out, cfg.Data.DateColumn); err != nil {
				return err
			}
			logger.Info("wrote synthetic dataset",
				"path", out, "days", gen.Days,
				"beta_fb", gen.BetaFacebook, "beta_google", gen.BetaGoogle)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&gen.Days, "days", gen.Days, "number of daily observations")
	flags.Uint64Var(&gen.Seed, "seed", gen.Seed, "generator seed")
	flags.Float64Var(&gen.BetaFacebook, "beta-fb", gen.BetaFacebook, "true Facebook sales effect")
	flags.Float64Var(&gen.BetaGoogle, "beta-google", gen.BetaGoogle, "true Google sales effect")
	flags.Float64Var(&gen.NoiseSigma, "noise", gen.NoiseSigma, "sales noise standard deviation")
	flags.StringVar(&out, "out", out, "output CSV path")

	return cmd
}
