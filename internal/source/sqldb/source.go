// Package sqldb implements schema introspection and metric dispatch over
// database/sql for MySQL, PostgreSQL and SQLite.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/alexanderjulianmartinez/columnwatch/internal/config"
	"github.com/alexanderjulianmartinez/columnwatch/internal/metrics"
	"github.com/alexanderjulianmartinez/columnwatch/internal/source"
)

const pingTimeout = 5 * time.Second

type Source struct {
	db      *sql.DB
	dialect Dialect
	schema  string
	timeout time.Duration
}

var (
	_ source.SchemaIntrospector = (*Source)(nil)
	_ source.QueryDispatcher    = (*Source)(nil)
	_ source.TableInspector     = (*Source)(nil)
)

// Open connects to the configured source and verifies it is reachable.
func Open(ctx context.Context, cfg config.SourceConfig) (*Source, error) {
	dialect, err := DialectFor(cfg.Type)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialect.DriverName(), cfg.DSN)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping failed: %w", dialect.Name(), err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return New(db, dialect, cfg.Schema, cfg.QueryTimeout), nil
}

// New wraps an already opened database. A zero timeout leaves query deadlines
// to the caller's context.
func New(db *sql.DB, dialect Dialect, schema string, timeout time.Duration) *Source {
	return &Source{
		db:      db,
		dialect: dialect,
		schema:  schema,
		timeout: timeout,
	}
}

func (s *Source) Dialect() Dialect { return s.dialect }

func (s *Source) Close() error {
	return s.db.Close()
}

func (s *Source) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// splitTable separates a schema qualifier from the table name. The last dot
// wins, so "shop.public.users" yields ("shop.public", "users").
func splitTable(table string) (schema, name string) {
	if i := strings.LastIndex(table, "."); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}

// FetchSchema lists the columns of table. A qualified name overrides the
// configured schema.
func (s *Source) FetchSchema(ctx context.Context, table string) ([]source.ColumnInfo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	schema, name := splitTable(table)
	if schema == "" {
		schema = s.schema
	}
	query, args := s.dialect.ColumnsQuery(schema, name)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch schema of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []source.ColumnInfo
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return nil, err
		}
		cols = append(cols, source.ColumnInfo{
			Name:     name,
			Type:     dataType,
			Nullable: nullable == "YES",
		})
	}
	return cols, rows.Err()
}

func (s *Source) FetchRowCount(ctx context.Context, table string) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", metrics.QuoteTable(s.dialect, table))
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return count, nil
}

func (s *Source) InspectTable(ctx context.Context, table string) (source.TableInfo, error) {
	cols, err := s.FetchSchema(ctx, table)
	if err != nil {
		return source.TableInfo{}, err
	}
	n, err := s.FetchRowCount(ctx, table)
	if err != nil {
		return source.TableInfo{}, err
	}
	return source.TableInfo{Name: table, Columns: cols, RowCount: n}, nil
}

// DispatchSelectFirst renders the metric for this dialect, runs it and returns
// the first row.
func (s *Source) DispatchSelectFirst(ctx context.Context, table string, m metrics.Metric) (map[string]any, error) {
	q, err := m.Query(s.dialect, table)
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", m.Name(), err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("run %s on %s.%s: %w", m.Name(), table, m.Column(), err)
	}
	return scanOne(rows)
}

// scanOne consumes exactly one row into a map keyed by column name.
func scanOne(rows *sql.Rows) (map[string]any, error) {
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	m := make(map[string]any, len(cols))
	for i, c := range cols {
		m[c] = vals[i]
	}
	return m, rows.Err()
}
