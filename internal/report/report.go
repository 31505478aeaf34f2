// Package report renders posterior summaries as text tables.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mkelk/mmm-experiments/pkg/posterior"
)

// hdiProb is the interval width reported per parameter.
const hdiProb = 0.94

// Summary writes a table of posterior mean, standard deviation, and 94% HDI
// for the named parameters, one row per component.
func Summary(w io.Writer, post *posterior.Posterior, names []string) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"parameter", "mean", "sd", "hdi 3%", "hdi 97%"})

	for _, name := range names {
		param, err := post.Param(name)
		if err != nil {
			return err
		}
		means, err := post.Mean(name)
		if err != nil {
			return err
		}
		sds, err := post.StdDev(name)
		if err != nil {
			return err
		}
		for comp := 0; comp < param.Components(); comp++ {
			label := name
			if param.Labels != nil {
				label = fmt.Sprintf("%s[%s]", name, param.Labels[comp])
			}
			interval, err := post.HDIOf(name, comp, hdiProb)
			if err != nil {
				return err
			}
			t.AppendRow(table.Row{
				label,
				fmt.Sprintf("%.3f", means[comp]),
				fmt.Sprintf("%.3f", sds[comp]),
				fmt.Sprintf("%.3f", interval.Lower),
				fmt.Sprintf("%.3f", interval.Upper),
			})
		}
	}

	t.Render()
	return nil
}
