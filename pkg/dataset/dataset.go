// Package dataset provides the in-memory observation table consumed by the
// marketing-mix models: one row per time period, a date column, a sales
// column, and one numeric column per advertising channel or engagement
// metric. It also implements the scaling convention shared by all model
// variants.
package dataset

import (
	"fmt"
	"sort"
	"time"
)

// Default column names shared across the model family.
const (
	DateColumn  = "date"
	SalesColumn = "sales"
)

// Table is an immutable-by-convention observation table. Dates are ordered
// and unique; every named column has one value per date.
type Table struct {
	dates   []time.Time
	columns map[string][]float64
	names   []string // column declaration order, for stable iteration
}

// New builds a Table from a date vector and named numeric columns.
// Dates must be strictly increasing and every column must match their length.
func New(dates []time.Time, columns map[string][]float64) (*Table, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("dataset: no observations")
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("dataset: dates must be strictly increasing (row %d)", i)
		}
	}

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make(map[string][]float64, len(columns))
	for _, name := range names {
		vals := columns[name]
		if len(vals) != len(dates) {
			return nil, fmt.Errorf("dataset: column %q has %d values, want %d", name, len(vals), len(dates))
		}
		cols[name] = append([]float64(nil), vals...)
	}

	return &Table{
		dates:   append([]time.Time(nil), dates...),
		columns: cols,
		names:   names,
	}, nil
}

// Len returns the number of observations (rows).
func (t *Table) Len() int { return len(t.dates) }

// Dates returns the date column.
func (t *Table) Dates() []time.Time { return t.dates }

// Columns returns the column names in stable order.
func (t *Table) Columns() []string { return t.names }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) ([]float64, error) {
	vals, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("dataset: unknown column %q", name)
	}
	return vals, nil
}

// MustColumn returns the named column and panics if it is missing. Intended
// for call sites that have already validated the schema.
func (t *Table) MustColumn(name string) []float64 {
	vals, err := t.Column(name)
	if err != nil {
		panic(err)
	}
	return vals
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	cols := make(map[string][]float64, len(t.columns))
	for name, vals := range t.columns {
		cols[name] = append([]float64(nil), vals...)
	}
	return &Table{
		dates:   append([]time.Time(nil), t.dates...),
		columns: cols,
		names:   append([]string(nil), t.names...),
	}
}

// setColumn replaces a column in place. Used by the scaling step on copies.
func (t *Table) setColumn(name string, vals []float64) {
	t.columns[name] = vals
}

// Validate checks that the table carries a date column ordering (implicit),
// the sales column, and all named channel columns.
func (t *Table) Validate(salesColumn string, channels []string) error {
	if len(channels) == 0 {
		return fmt.Errorf("dataset: no channels named")
	}
	if !t.HasColumn(salesColumn) {
		return fmt.Errorf("dataset: missing sales column %q", salesColumn)
	}
	for _, ch := range channels {
		if !t.HasColumn(ch) {
			return fmt.Errorf("dataset: missing channel column %q", ch)
		}
	}
	return nil
}
