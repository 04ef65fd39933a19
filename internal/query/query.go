// Package query defines the engine session contract, the executor that
// shapes engine rows into column-named records, and the structured
// errors both surface.
package query

import (
	"context"
	"fmt"
	"time"
)

// Rows is the raw engine output: parallel column names and DuckDB type
// names, plus row values in column order.
type Rows struct {
	Columns []string
	Types   []string
	Values  [][]any
}

// Session is a handle on the analytical engine. Sessions are
// single-threaded; callers must not share one across concurrent
// operations.
type Session interface {
	Execute(ctx context.Context, sqlText string) (Rows, error)
}

// Record maps column names to shaped values for one result row.
type Record map[string]any

type Result struct {
	Columns         []string `json:"columns"`
	Data            []Record `json:"data"`
	RowCount        int      `json:"row_count"`
	ExecutionTimeMs int64    `json:"execution_time_ms"`
	Query           string   `json:"query"`
}

type Options struct {
	// Limit truncates the materialized records when positive. The SQL
	// itself is never rewritten.
	Limit int
}

// InitError reports a failure to bring up the engine or its
// object-store extension.
type InitError struct {
	Cause error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("engine init failed: %v", e.Cause)
}

func (e *InitError) Unwrap() error { return e.Cause }

// SQLError reports a parse or execution failure together with the
// offending statement.
type SQLError struct {
	Message string
	SQL     string
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("sql error: %s (query: %s)", e.Message, e.SQL)
}

type Executor struct{}

func NewExecutor() *Executor { return &Executor{} }

// Run executes one statement and materializes the full result set.
// ExecutionTimeMs covers only the engine call.
func (e *Executor) Run(ctx context.Context, session Session, sqlText string, opts Options) (Result, error) {
	start := time.Now()
	rows, err := session.Execute(ctx, sqlText)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}

	values := rows.Values
	if opts.Limit > 0 && len(values) > opts.Limit {
		values = values[:opts.Limit]
	}

	data := make([]Record, 0, len(values))
	for _, row := range values {
		record := make(Record, len(rows.Columns))
		for i, column := range rows.Columns {
			columnType := ""
			if i < len(rows.Types) {
				columnType = rows.Types[i]
			}
			record[column] = shapeValue(row[i], columnType)
		}
		data = append(data, record)
	}

	return Result{
		Columns:         rows.Columns,
		Data:            data,
		RowCount:        len(data),
		ExecutionTimeMs: int64(elapsed.Round(time.Millisecond) / time.Millisecond),
		Query:           sqlText,
	}, nil
}

// shapeValue renders engine values for the JSON boundary: instants as
// RFC 3339 UTC strings, dates as YYYY-MM-DD, byte slices as strings.
// Nested lists and structs pass through; NULL stays nil.
func shapeValue(value any, columnType string) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case time.Time:
		if columnType == "DATE" {
			return typed.Format("2006-01-02")
		}
		return typed.UTC().Format(time.RFC3339)
	case []byte:
		return string(typed)
	case []any:
		shaped := make([]any, len(typed))
		for i, item := range typed {
			shaped[i] = shapeValue(item, "")
		}
		return shaped
	case map[string]any:
		shaped := make(map[string]any, len(typed))
		for key, item := range typed {
			shaped[key] = shapeValue(item, "")
		}
		return shaped
	default:
		return typed
	}
}
