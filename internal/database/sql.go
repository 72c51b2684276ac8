package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	go_ora "github.com/sijms/go-ora/v2"
	_ "modernc.org/sqlite"

	"agenthub/internal/nlsql"
)

const defaultConnectTimeout = 30 * time.Second

// SQLBackend is the driver-backed session. It speaks Oracle through go-ora
// and SQLite through modernc.org/sqlite; the driver is fixed at
// construction, the connection parameters per Connect call.
type SQLBackend struct {
	driver  string
	dialect nlsql.Dialect

	mu     sync.Mutex
	db     *sql.DB
	params Params
}

func NewSQLBackend(driver string) (*SQLBackend, error) {
	var d nlsql.Dialect
	switch driver {
	case "oracle":
		d = nlsql.OracleDialect{}
	case "sqlite":
		d = nlsql.SQLiteDialect{}
	default:
		return nil, fmt.Errorf("unsupported sql driver: %q", driver)
	}
	return &SQLBackend{driver: driver, dialect: d}, nil
}

func (b *SQLBackend) dsn(p Params) string {
	if b.driver == "sqlite" {
		// For SQLite the service name doubles as the database path
		// (":memory:" for an in-memory database).
		return p.Service
	}
	opts := map[string]string{}
	if p.UseSSL {
		opts["SSL"] = "true"
	}
	return go_ora.BuildUrl(p.Host, p.Port, p.Service, p.Username, p.Password, opts)
}

func (b *SQLBackend) connectTimeout(p Params) time.Duration {
	if p.TimeoutSec > 0 {
		return time.Duration(p.TimeoutSec) * time.Second
	}
	return defaultConnectTimeout
}

// Connect opens a connection and verifies it with a ping. On failure the
// session stays disconnected; there is no automatic retry. Connecting while
// already connected replaces the previous handle.
func (b *SQLBackend) Connect(ctx context.Context, p Params) error {
	db, err := sql.Open(b.driver, b.dsn(p))
	if err != nil {
		return fmt.Errorf("opening connection: %w", err)
	}
	if p.PoolSize > 0 {
		db.SetMaxOpenConns(p.PoolSize)
	}

	pingCtx, cancel := context.WithTimeout(ctx, b.connectTimeout(p))
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("connecting to %s: %w", b.driver, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db != nil {
		b.db.Close()
	}
	b.db = db
	b.params = p
	return nil
}

// TestConnection opens a short-lived connection, runs a liveness probe and
// closes it. The session's own state is untouched either way.
func (b *SQLBackend) TestConnection(ctx context.Context, p Params) error {
	db, err := sql.Open(b.driver, b.dsn(p))
	if err != nil {
		return fmt.Errorf("opening connection: %w", err)
	}
	defer db.Close()

	probeCtx, cancel := context.WithTimeout(ctx, b.connectTimeout(p))
	defer cancel()

	var one int
	if err := db.QueryRowContext(probeCtx, b.probeQuery()).Scan(&one); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	if one != 1 {
		return fmt.Errorf("connection test returned unexpected value %d", one)
	}
	return nil
}

func (b *SQLBackend) probeQuery() string {
	if b.driver == "oracle" {
		return "SELECT 1 FROM DUAL"
	}
	return "SELECT 1"
}

// Execute runs one statement. SELECTs (identified by textual prefix) return
// a tabular result; anything else is executed and reported as an affected
// notice. Driver-level failures are returned as errors without changing the
// connection state.
func (b *SQLBackend) Execute(ctx context.Context, query string) (Result, error) {
	b.mu.Lock()
	db := b.db
	b.mu.Unlock()
	if db == nil {
		return Result{}, ErrNotConnected
	}

	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") {
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return Result{}, fmt.Errorf("query execution error: %w", err)
		}
		defer rows.Close()
		return collectRows(rows)
	}

	res, err := db.ExecContext(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("query execution error: %w", err)
	}
	affected, _ := res.RowsAffected()
	return Result{
		Notice:   "Query executed successfully",
		RowCount: int(affected),
	}, nil
}

func collectRows(rows *sql.Rows) (Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("reading columns: %w", err)
	}

	result := Result{Columns: cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, fmt.Errorf("scanning row: %w", err)
		}
		row := make([]any, len(cols))
		for i, v := range raw {
			if bs, ok := v.([]byte); ok {
				row[i] = string(bs)
			} else {
				row[i] = v
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterating rows: %w", err)
	}
	result.RowCount = len(result.Rows)
	return result, nil
}

func (b *SQLBackend) ListTables(ctx context.Context) ([]string, error) {
	res, err := b.Execute(ctx, b.dialect.ListTablesQuery())
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) > 0 {
			tables = append(tables, fmt.Sprintf("%v", row[0]))
		}
	}
	return tables, nil
}

func (b *SQLBackend) Describe(ctx context.Context, table string) ([]Column, error) {
	res, err := b.Execute(ctx, b.describeQuery(table))
	if err != nil {
		return nil, err
	}
	cols := make([]Column, 0, len(res.Rows))
	for _, row := range res.Rows {
		c := Column{}
		if len(row) > 0 {
			c.Name = str(row[0])
		}
		if len(row) > 1 {
			c.Type = str(row[1])
		}
		if len(row) > 2 {
			c.Nullable = str(row[2])
		}
		if len(row) > 3 && row[3] != nil {
			c.Default = str(row[3])
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// describeQuery includes the column default, which the translator's
// user-facing describe template omits.
func (b *SQLBackend) describeQuery(table string) string {
	if b.driver == "oracle" {
		return fmt.Sprintf("SELECT column_name, data_type, nullable, data_default FROM user_tab_columns WHERE table_name = '%s' ORDER BY column_id", strings.ToUpper(table))
	}
	return fmt.Sprintf("SELECT name, type, CASE \"notnull\" WHEN 0 THEN 'Y' ELSE 'N' END, dflt_value FROM pragma_table_info('%s') ORDER BY cid", table)
}

func (b *SQLBackend) RowCount(ctx context.Context, table string) (int64, error) {
	b.mu.Lock()
	db := b.db
	b.mu.Unlock()
	if db == nil {
		return 0, ErrNotConnected
	}

	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting rows in %s: %w", table, err)
	}
	return count, nil
}

// Disconnect releases the handle. Calling it on a disconnected session is a
// no-op.
func (b *SQLBackend) Disconnect() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func (b *SQLBackend) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db != nil {
		return StatusConnected
	}
	return StatusDisconnected
}

func (b *SQLBackend) Dialect() nlsql.Dialect {
	return b.dialect
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
