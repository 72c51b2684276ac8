package nlsql

import "fmt"

// Dialect supplies the engine-specific SQL the translator cannot build
// generically: catalog lookups and row-limited selects.
type Dialect interface {
	// ListTablesQuery returns a query yielding one table name per row,
	// ordered by name.
	ListTablesQuery() string
	// SampleQuery returns a select limited to the first n rows of table.
	SampleQuery(table string, n int) string
	// DescribeQuery returns a query yielding column name, data type and
	// nullability for table, ordered by column position.
	DescribeQuery(table string) string
}

// OracleDialect targets Oracle's user_* catalog views and ROWNUM limits.
type OracleDialect struct{}

func (OracleDialect) ListTablesQuery() string {
	return "SELECT table_name FROM user_tables ORDER BY table_name"
}

func (OracleDialect) SampleQuery(table string, n int) string {
	return fmt.Sprintf("SELECT * FROM %s WHERE ROWNUM <= %d", table, n)
}

func (OracleDialect) DescribeQuery(table string) string {
	return fmt.Sprintf("SELECT column_name, data_type, nullable FROM user_tab_columns WHERE table_name = '%s' ORDER BY column_id", table)
}

// SQLiteDialect targets sqlite_master and LIMIT clauses.
type SQLiteDialect struct{}

func (SQLiteDialect) ListTablesQuery() string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
}

func (SQLiteDialect) SampleQuery(table string, n int) string {
	return fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, n)
}

func (SQLiteDialect) DescribeQuery(table string) string {
	return fmt.Sprintf("SELECT name, type, CASE \"notnull\" WHEN 0 THEN 'Y' ELSE 'N' END AS nullable FROM pragma_table_info('%s') ORDER BY cid", table)
}
