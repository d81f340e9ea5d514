package source

import (
	"context"

	"github.com/alexanderjulianmartinez/columnwatch/internal/metrics"
)

type ColumnInfo struct {
	Name     string
	Type     string
	Nullable bool
}

type TableInfo struct {
	Name     string
	Columns  []ColumnInfo
	RowCount int64
}

// TableInspector describes a whole table: its columns and current size.
type TableInspector interface {
	InspectTable(ctx context.Context, table string) (TableInfo, error)
}

// SchemaIntrospector lists the columns of a table in ordinal order.
type SchemaIntrospector interface {
	FetchSchema(ctx context.Context, table string) ([]ColumnInfo, error)
}

// QueryDispatcher runs a metric against a table and returns the first result
// row keyed by result column name.
type QueryDispatcher interface {
	DispatchSelectFirst(ctx context.Context, table string, m metrics.Metric) (map[string]any, error)
}

// FindColumn returns the column with exactly the given name.
func FindColumn(cols []ColumnInfo, name string) (ColumnInfo, bool) {
	for _, c := range cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}
