package dataset

import (
	"fmt"
	"sort"
)

// Scaling holds the two scale factors applied to an observation table before
// fitting. Channel is the maximum per-channel median spend across all
// channels; Sales is the median of the sales column taken from the
// channel-scaled table (channel scaling never touches the sales column
// itself, so this equals the raw sales median).
type Scaling struct {
	Channel float64
	Sales   float64
}

// Compute derives the scale factors and the scaled table for the given
// channels and sales column. The two-step order is part of the contract:
// channel columns are divided by the channel scale first, then the sales
// scale is read off the resulting table and divided out of the sales column.
func Compute(raw *Table, channels []string, salesColumn string) (Scaling, *Table, error) {
	if err := raw.Validate(salesColumn, channels); err != nil {
		return Scaling{}, nil, err
	}

	scaled := raw.Copy()

	var channelScale float64
	for _, ch := range channels {
		if m := Median(scaled.MustColumn(ch)); m > channelScale {
			channelScale = m
		}
	}
	if channelScale <= 0 {
		return Scaling{}, nil, fmt.Errorf("dataset: channel scale is %v, channels must have positive median spend", channelScale)
	}
	for _, ch := range channels {
		scaled.setColumn(ch, scaleBy(scaled.MustColumn(ch), channelScale))
	}

	salesScale := Median(scaled.MustColumn(salesColumn))
	if salesScale <= 0 {
		return Scaling{}, nil, fmt.Errorf("dataset: sales scale is %v, sales must have positive median", salesScale)
	}
	scaled.setColumn(salesColumn, scaleBy(scaled.MustColumn(salesColumn), salesScale))

	return Scaling{Channel: channelScale, Sales: salesScale}, scaled, nil
}

// Median returns the median of vals, averaging the two middle values for
// even-length input.
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func scaleBy(vals []float64, scale float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v / scale
	}
	return out
}
