package query

import (
	"context"
	"time"
)

// Result is the executed result set, passed through to the HTTP response
// unmodified.
type Result struct {
	Columns  []string
	Rows     []map[string]any
	RowCount int
	Duration time.Duration
}

// Executor runs a sanitized statement. Implementations do not retry;
// any failure is request-scoped.
type Executor interface {
	Execute(ctx context.Context, sqlText string) (Result, error)
}
