package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/queryloom/queryloom/internal/observability"
	"github.com/queryloom/queryloom/internal/query"
)

// Executor runs sanitized SELECT statements on the shared connection pool.
type Executor struct {
	db *sql.DB
}

func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

func (e *Executor) Execute(ctx context.Context, sqlText string) (query.Result, error) {
	start := time.Now()

	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return query.Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return query.Result{}, fmt.Errorf("read result columns: %w", err)
	}

	result := query.Result{Columns: columns, Rows: make([]map[string]any, 0)}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return query.Result{}, fmt.Errorf("scan result row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return query.Result{}, fmt.Errorf("iterate result rows: %w", err)
	}

	result.RowCount = len(result.Rows)
	result.Duration = time.Since(start)
	observability.ObserveQueryDuration(result.Duration)
	return result, nil
}

// normalizeValue keeps the JSON encoding of driver values readable: byte
// slices become strings instead of base64.
func normalizeValue(value any) any {
	if raw, ok := value.([]byte); ok {
		return string(raw)
	}
	return value
}
