package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Loader reads observation tables through an embedded DuckDB instance, which
// handles CSV and Parquet ingestion with type inference.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger discards log output.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{logger: logger}
}

// LoadFile reads an observation table from a CSV or Parquet file, using
// DuckDB's readers for parsing and type inference.
func (l *Loader) LoadFile(ctx context.Context, path, dateColumn string) (*Table, error) {
	var source string
	switch {
	case strings.HasSuffix(path, ".parquet"):
		source = fmt.Sprintf("read_parquet('%s')", path)
	default:
		source = fmt.Sprintf("read_csv_auto('%s')", path)
	}
	return l.Query(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s", source, quoteIdent(dateColumn)), dateColumn)
}

// Query runs an arbitrary DuckDB query against an in-memory database and
// materializes the result as an observation table. The date column must be
// returned as a DATE/TIMESTAMP or an ISO-formatted string; all other columns
// must be numeric.
func (l *Loader) Query(ctx context.Context, query, dateColumn string) (*Table, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("dataset: open duckdb: %w", err)
	}
	defer func() { _ = db.Close() }()

	l.logger.Debug("loading observation table", "query", query)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dataset: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("dataset: read columns: %w", err)
	}
	dateIdx := -1
	for i, name := range cols {
		if name == dateColumn {
			dateIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("dataset: result has no %q column", dateColumn)
	}

	var dates []time.Time
	columns := make(map[string][]float64)
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("dataset: scan row: %w", err)
		}
		for i, val := range values {
			if i == dateIdx {
				d, err := coerceDate(val)
				if err != nil {
					return nil, fmt.Errorf("dataset: column %q: %w", cols[i], err)
				}
				dates = append(dates, d)
				continue
			}
			f, err := coerceFloat(val)
			if err != nil {
				return nil, fmt.Errorf("dataset: column %q: %w", cols[i], err)
			}
			columns[cols[i]] = append(columns[cols[i]], f)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dataset: iterate rows: %w", err)
	}

	table, err := New(dates, columns)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("observation table loaded", "rows", table.Len(), "columns", len(cols))
	return table, nil
}

func coerceDate(val any) (time.Time, error) {
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseDate(v)
	case []byte:
		return parseDate(string(v))
	default:
		return time.Time{}, fmt.Errorf("cannot interpret %T as date", val)
	}
}

func coerceFloat(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("cannot interpret %T as number", val)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
