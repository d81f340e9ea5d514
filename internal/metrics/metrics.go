// Package metrics is the catalog of column aggregates a check can request.
// Each metric renders a single-row SELECT whose result column carries the
// metric name.
package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	NullCountName  = "nullCount"
	CountInSetName = "countInSet"
)

var ErrUnknownMetric = errors.New("unknown metric")

// Dialect renders identifiers and bind parameters for a SQL backend.
type Dialect interface {
	QuoteIdent(name string) string
	// Placeholder returns the bind marker for the n-th argument, starting at 1.
	Placeholder(n int) string
}

type Query struct {
	SQL  string
	Args []any
}

type Metric interface {
	Name() string
	Column() string
	Query(d Dialect, table string) (Query, error)
}

// Props are the configuration properties injected into a metric.
type Props map[string]any

type Option func(Props)

// WithValues sets the "values" property used by set based metrics.
func WithValues(values []string) Option {
	return func(p Props) {
		p["values"] = values
	}
}

type Constructor func(column string, opts ...Option) (Metric, error)

var catalog = map[string]Constructor{
	NullCountName:  NullCount,
	CountInSetName: CountInSet,
}

// Lookup returns the constructor registered under name.
func Lookup(name string) (Constructor, error) {
	c, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}
	return c, nil
}

// Names lists the catalog in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newProps(opts []Option) Props {
	p := Props{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// QuoteTable quotes each dot separated part of a possibly schema qualified
// table name.
func QuoteTable(d Dialect, table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdent(strings.TrimSpace(p))
	}
	return strings.Join(parts, ".")
}

type nullCount struct {
	column string
}

// NullCount counts the rows where column IS NULL.
func NullCount(column string, _ ...Option) (Metric, error) {
	if column == "" {
		return nil, errors.New("nullCount: column is required")
	}
	return nullCount{column: column}, nil
}

func (m nullCount) Name() string   { return NullCountName }
func (m nullCount) Column() string { return m.column }

func (m nullCount) Query(d Dialect, table string) (Query, error) {
	return Query{
		SQL: fmt.Sprintf("SELECT COALESCE(SUM(CASE WHEN %s IS NULL THEN 1 ELSE 0 END), 0) AS %s FROM %s",
			d.QuoteIdent(m.column), d.QuoteIdent(NullCountName), QuoteTable(d, table)),
	}, nil
}

type countInSet struct {
	column string
	values []string
}

// CountInSet counts the rows whose column value is one of the "values" prop.
func CountInSet(column string, opts ...Option) (Metric, error) {
	if column == "" {
		return nil, errors.New("countInSet: column is required")
	}
	values, _ := newProps(opts)["values"].([]string)
	if len(values) == 0 {
		return nil, errors.New("countInSet: values property is required")
	}
	return countInSet{column: column, values: append([]string(nil), values...)}, nil
}

func (m countInSet) Name() string   { return CountInSetName }
func (m countInSet) Column() string { return m.column }

func (m countInSet) Query(d Dialect, table string) (Query, error) {
	marks := make([]string, len(m.values))
	args := make([]any, len(m.values))
	for i, v := range m.values {
		marks[i] = d.Placeholder(i + 1)
		args[i] = v
	}
	return Query{
		SQL: fmt.Sprintf("SELECT COALESCE(SUM(CASE WHEN %s IN (%s) THEN 1 ELSE 0 END), 0) AS %s FROM %s",
			d.QuoteIdent(m.column), strings.Join(marks, ", "), d.QuoteIdent(CountInSetName), QuoteTable(d, table)),
		Args: args,
	}, nil
}
