package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/queryloom/queryloom/internal/schema"
)

const columnsQuery = `
SELECT table_schema, table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name, ordinal_position`

const rowEstimatesQuery = `
SELECT schemaname, relname, n_live_tup
FROM pg_stat_user_tables`

// Introspector rebuilds schema snapshots from the PostgreSQL catalog.
type Introspector struct {
	db *sql.DB
}

func NewIntrospector(db *sql.DB) *Introspector {
	return &Introspector{db: db}
}

func (i *Introspector) HealthCheck(ctx context.Context) error {
	if err := i.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

type columnRow struct {
	schema string
	table  string
	column schema.Column
}

// Snapshot issues the column listing and the row-count listing concurrently
// and joins them by qualified table name.
func (i *Introspector) Snapshot(ctx context.Context) (schema.Snapshot, error) {
	var (
		columns   []columnRow
		estimates map[string]int64
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		columns, err = i.listColumns(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		estimates, err = i.listRowEstimates(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return schema.Snapshot{}, err
	}

	byName := map[string]*schema.Table{}
	order := make([]string, 0)
	for _, row := range columns {
		key := row.schema + "." + row.table
		table, ok := byName[key]
		if !ok {
			table = &schema.Table{Schema: row.schema, Name: row.table}
			if estimate, found := estimates[key]; found {
				table.EstimatedRows = estimate
				table.HasEstimate = true
			}
			byName[key] = table
			order = append(order, key)
		}
		table.Columns = append(table.Columns, row.column)
	}
	sort.Strings(order)

	tables := make([]schema.Table, 0, len(order))
	for _, key := range order {
		tables = append(tables, *byName[key])
	}
	return schema.Snapshot{Tables: tables, CreatedAt: time.Now().UTC()}, nil
}

func (i *Introspector) listColumns(ctx context.Context) ([]columnRow, error) {
	rows, err := i.db.QueryContext(ctx, columnsQuery)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]columnRow, 0)
	for rows.Next() {
		var row columnRow
		if err := rows.Scan(&row.schema, &row.table, &row.column.Name, &row.column.Type); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}
	return result, nil
}

func (i *Introspector) listRowEstimates(ctx context.Context) (map[string]int64, error) {
	rows, err := i.db.QueryContext(ctx, rowEstimatesQuery)
	if err != nil {
		return nil, fmt.Errorf("list row estimates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	estimates := map[string]int64{}
	for rows.Next() {
		var (
			schemaName string
			tableName  string
			liveTuples int64
		)
		if err := rows.Scan(&schemaName, &tableName, &liveTuples); err != nil {
			return nil, fmt.Errorf("scan row estimate: %w", err)
		}
		estimates[schemaName+"."+tableName] = liveTuples
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate row estimates: %w", err)
	}
	return estimates, nil
}
