// Package schema produces and caches a textual snapshot of the database
// layout used to ground SQL generation.
package schema

import (
	"context"
	"strconv"
	"strings"
	"time"
)

type Column struct {
	Name string
	Type string
}

type Table struct {
	Schema        string
	Name          string
	EstimatedRows int64
	HasEstimate   bool
	Columns       []Column
}

// QualifiedName returns the schema-qualified table name.
func (t Table) QualifiedName() string {
	return t.Schema + "." + t.Name
}

// Snapshot is an immutable description of every user table. It is rebuilt
// wholesale on cache expiry, never patched in place.
type Snapshot struct {
	Tables    []Table
	CreatedAt time.Time
}

// Text renders the snapshot in the form consumed by the prompt builder,
// one table per line:
//
//	schema.table (est_rows ~N): col1 (type1), col2 (type2)
//
// Tables without a row estimate omit the annotation.
func (s Snapshot) Text() string {
	lines := make([]string, 0, len(s.Tables))
	for _, table := range s.Tables {
		var b strings.Builder
		b.WriteString(table.QualifiedName())
		if table.HasEstimate {
			b.WriteString(" (est_rows ~")
			b.WriteString(strconv.FormatInt(table.EstimatedRows, 10))
			b.WriteString(")")
		}
		b.WriteString(": ")
		for i, col := range table.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(col.Name)
			b.WriteString(" (")
			b.WriteString(col.Type)
			b.WriteString(")")
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// Source rebuilds a snapshot from the live database.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}
