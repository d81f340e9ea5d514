package sqldb

import (
	"fmt"
	"strings"
)

const (
	TypeMySQL    = "mysql"
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Dialect captures what differs between the supported backends: identifier
// quoting, bind markers and where column metadata lives.
type Dialect interface {
	Name() string
	DriverName() string
	QuoteIdent(name string) string
	Placeholder(n int) string
	// ColumnsQuery returns a query yielding (name, data type, nullable) rows
	// for the table in ordinal order.
	ColumnsQuery(schema, table string) (string, []any)
}

func DialectFor(sourceType string) (Dialect, error) {
	switch sourceType {
	case TypeMySQL:
		return mysqlDialect{}, nil
	case TypePostgres:
		return postgresDialect{}, nil
	case TypeSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string       { return TypeMySQL }
func (mysqlDialect) DriverName() string { return "mysql" }

func (mysqlDialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (mysqlDialect) Placeholder(int) string { return "?" }

func (mysqlDialect) ColumnsQuery(schema, table string) (string, []any) {
	return `
		SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`, []any{schema, table}
}

type postgresDialect struct{}

func (postgresDialect) Name() string       { return TypePostgres }
func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (postgresDialect) ColumnsQuery(schema, table string) (string, []any) {
	if schema == "" {
		schema = "public"
	}
	return `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`, []any{schema, table}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return TypeSQLite }
func (sqliteDialect) DriverName() string { return "sqlite" }

func (sqliteDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteDialect) Placeholder(int) string { return "?" }

// For sqlite the schema is an attached database name such as "main". Empty
// searches every attached database.
func (sqliteDialect) ColumnsQuery(schema, table string) (string, []any) {
	if schema == "" {
		return `
		SELECT name, type, CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END
		FROM pragma_table_info(?)
		ORDER BY cid
	`, []any{table}
	}
	return `
		SELECT name, type, CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END
		FROM pragma_table_info(?, ?)
		ORDER BY cid
	`, []any{table, schema}
}
