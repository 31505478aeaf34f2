package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mkelk/mmm-experiments/internal/report"
	"github.com/mkelk/mmm-experiments/pkg/dataset"
	"github.com/mkelk/mmm-experiments/pkg/infer"
	"github.com/mkelk/mmm-experiments/pkg/mmm"
)

func newFitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fit",
		Short: "Fit the configured model and write charts and a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Data.Path == "" && cfg.Data.Query == "" {
				return fmt.Errorf("no data source configured (set data.path or data.query)")
			}

			loader := dataset.NewLoader(logger)
			var (
				table *dataset.Table
				err   error
			)
			if cfg.Data.Query != "" {
				table, err = loader.Query(cmd.Context(), cfg.Data.Query, cfg.Data.DateColumn)
			} else {
				table, err = loader.LoadFile(cmd.Context(), cfg.Data.Path, cfg.Data.DateColumn)
			}
			if err != nil {
				return err
			}

			spec, err := buildSpec()
			if err != nil {
				return err
			}

			model, err := mmm.New(spec, table, cfg.Channels, mmm.WithLogger(logger))
			if err != nil {
				return err
			}

			err = model.Fit(cmd.Context(), infer.Options{
				Chains:   cfg.Sampler.Chains,
				Draws:    cfg.Sampler.Draws,
				BurnIn:   cfg.Sampler.BurnIn,
				Thin:     cfg.Sampler.Thin,
				StepSize: cfg.Sampler.StepSize,
				Seed:     cfg.Sampler.Seed,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			outDir := cfg.Output.Dir
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			predictivePath := filepath.Join(outDir, "posterior_predictive.png")
			if err := model.PlotPosteriorPredictive(predictivePath, cfg.Output.OriginalScale); err != nil {
				return err
			}
			logger.Info("wrote posterior predictive chart", "path", predictivePath)

			paths, err := model.PlotParameterDistributions(outDir, cfg.Output.OriginalScale)
			if err != nil {
				return err
			}
			logger.Info("wrote parameter distribution charts", "count", len(paths))

			post, err := model.Posterior()
			if err != nil {
				return err
			}
			if cfg.Output.OriginalScale {
				post, err = model.BackScaledPosterior()
				if err != nil {
					return err
				}
			}
			return report.Summary(cmd.OutOrStdout(), post, spec.ParamNames())
		},
	}
}

// buildSpec maps the configured variant name to a concrete capability set.
func buildSpec() (mmm.Spec, error) {
	switch cfg.Model.Variant {
	case "straight":
		return mmm.NewStraight(cfg.Model.AllowIntercept, cfg.Model.AllowAdstockAndSat, cfg.Model.AdstockMaxLag), nil
	case "confounder":
		return mmm.NewConfounder(), nil
	case "metrics":
		return mmm.NewMetrics(cfg.Model.FacebookMetric, cfg.Model.GoogleMetric), nil
	default:
		return nil, fmt.Errorf("unknown model variant %q (want straight, confounder, or metrics)", cfg.Model.Variant)
	}
}
