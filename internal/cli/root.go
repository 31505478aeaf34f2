// Package cli provides the command-line interface for the marketing-mix
// modeling tool.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkelk/mmm-experiments/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mmm",
		Short: "mmm - Bayesian marketing-mix models",
		Long: `mmm fits Bayesian marketing-mix models relating advertising spend across
channels to observed sales, and renders posterior-predictive and parameter
distribution charts.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Built ` + BuildDate + `
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default mmm.yaml in working directory)")
	flags.Bool("verbose", false, "enable debug logging")
	flags.String("data.path", "", "observation table (CSV or Parquet)")
	flags.StringSlice("channels", nil, "channel spend columns")
	flags.String("model.variant", "", "model variant: straight, confounder, metrics")
	flags.Bool("model.allow_intercept", false, "straight variant: include an intercept term")
	flags.Bool("model.allow_adstock_and_sat", false, "straight variant: apply adstock and saturation")
	flags.Int("sampler.chains", 0, "number of chains")
	flags.Int("sampler.draws", 0, "retained draws per chain")
	flags.Uint64("sampler.seed", 0, "sampling seed (0 picks one)")
	flags.String("output.dir", "", "output directory for charts and summaries")

	rootCmd.AddCommand(newFitCmd())
	rootCmd.AddCommand(newSimulateCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
