// Package plotting renders the two chart types the models need: a
// posterior-predictive time series with credible-interval bands, and
// marginal posterior distributions of fitted parameters. Rendering is
// delegated to gonum/plot; every function is a pure side effect writing an
// image file.
package plotting

import (
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Band is one shaded credible-interval band around the prediction.
type Band struct {
	Prob         float64
	Lower, Upper []float64
}

// PredictiveSeries is everything the posterior-predictive chart shows:
// observed sales, the posterior-mean prediction, and HDI bands.
type PredictiveSeries struct {
	Dates    []time.Time
	Observed []float64
	Mean     []float64
	Bands    []Band
	YLabel   string
}

var (
	observedColor = color.Black
	meanColor     = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
	bandBase      = color.NRGBA{R: 31, G: 119, B: 180}
)

// PosteriorPredictive writes the sales time-series chart to path: observed
// sales in black, posterior mean in blue, and one translucent band per HDI,
// wider intervals drawn first so narrower ones layer on top.
func PosteriorPredictive(path string, s PredictiveSeries) error {
	n := len(s.Dates)
	if n == 0 || len(s.Observed) != n || len(s.Mean) != n {
		return fmt.Errorf("plotting: series lengths disagree")
	}

	p := plot.New()
	p.Title.Text = "Sales (Target Variable)"
	p.X.Label.Text = "date"
	p.Y.Label.Text = s.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	// Shaded bands first so the lines render above them.
	for i, band := range s.Bands {
		if len(band.Lower) != n || len(band.Upper) != n {
			return fmt.Errorf("plotting: band %d length disagrees with series", i)
		}
		poly, err := bandPolygon(s.Dates, band)
		if err != nil {
			return err
		}
		p.Add(poly)
		p.Legend.Add(fmt.Sprintf("%.0f%% HDI", band.Prob*100), poly)
	}

	observed, err := plotter.NewLine(timeXYs(s.Dates, s.Observed))
	if err != nil {
		return fmt.Errorf("plotting: observed line: %w", err)
	}
	observed.Color = observedColor
	p.Add(observed)
	p.Legend.Add("observed", observed)

	mean, err := plotter.NewLine(timeXYs(s.Dates, s.Mean))
	if err != nil {
		return fmt.Errorf("plotting: mean line: %w", err)
	}
	mean.Color = meanColor
	p.Add(mean)
	p.Legend.Add("predicted mean", mean)

	p.Legend.Top = true
	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("plotting: save %s: %w", path, err)
	}
	return nil
}

// Marginal writes a histogram of one parameter's posterior draws to path.
func Marginal(path, name string, samples []float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("plotting: no samples for %q", name)
	}

	p := plot.New()
	p.Title.Text = name
	p.Y.Label.Text = "density"

	hist, err := plotter.NewHist(plotter.Values(samples), 40)
	if err != nil {
		return fmt.Errorf("plotting: histogram for %q: %w", name, err)
	}
	hist.Normalize(1)
	hist.FillColor = color.NRGBA{R: 31, G: 119, B: 180, A: 180}
	p.Add(hist)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plotting: save %s: %w", path, err)
	}
	return nil
}

// bandPolygon builds the closed region between a band's bounds: forward
// along the lower bound, back along the upper.
func bandPolygon(dates []time.Time, band Band) (*plotter.Polygon, error) {
	n := len(dates)
	pts := make(plotter.XYs, 0, 2*n)
	for i := 0; i < n; i++ {
		pts = append(pts, plotter.XY{X: float64(dates[i].Unix()), Y: band.Lower[i]})
	}
	for i := n - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: float64(dates[i].Unix()), Y: band.Upper[i]})
	}

	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return nil, fmt.Errorf("plotting: band polygon: %w", err)
	}
	// Opacity tracks the band's mass: 50% bands shade darker than 94%.
	alpha := uint8(50)
	if band.Prob <= 0.5 {
		alpha = 100
	}
	fill := bandBase
	fill.A = alpha
	poly.Color = fill
	poly.LineStyle.Color = color.NRGBA{}
	return poly, nil
}

func timeXYs(dates []time.Time, vals []float64) plotter.XYs {
	pts := make(plotter.XYs, len(dates))
	for i := range dates {
		pts[i] = plotter.XY{X: float64(dates[i].Unix()), Y: vals[i]}
	}
	return pts
}
