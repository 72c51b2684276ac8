package database

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"agenthub/internal/nlsql"
)

// MockBackend simulates an Oracle session against a fixed seven-table
// catalog. It exists so the database agent can be exercised end to end
// without a reachable database; connection parameters are accepted and
// stored but have no effect beyond the state transition.
type MockBackend struct {
	mu     sync.Mutex
	status Status
	params Params
}

func NewMockBackend() *MockBackend {
	return &MockBackend{status: StatusDisconnected}
}

var mockTables = []string{"CUSTOMERS", "ORDERS", "PRODUCTS", "EMPLOYEES", "DEPARTMENTS", "SALES", "INVENTORY"}

var mockRowCounts = map[string]int64{
	"CUSTOMERS":   1247,
	"ORDERS":      5638,
	"PRODUCTS":    892,
	"EMPLOYEES":   156,
	"DEPARTMENTS": 12,
}

var mockColumns = map[string][]Column{
	"CUSTOMERS": {
		{Name: "CUSTOMER_ID", Type: "NUMBER", Nullable: "N"},
		{Name: "CUSTOMER_NAME", Type: "VARCHAR2(100)", Nullable: "N"},
		{Name: "EMAIL", Type: "VARCHAR2(255)", Nullable: "Y"},
		{Name: "CREATED_DATE", Type: "DATE", Nullable: "N"},
	},
	"ORDERS": {
		{Name: "ORDER_ID", Type: "NUMBER", Nullable: "N"},
		{Name: "CUSTOMER_ID", Type: "NUMBER", Nullable: "N"},
		{Name: "ORDER_DATE", Type: "DATE", Nullable: "N"},
		{Name: "TOTAL_AMOUNT", Type: "NUMBER(10,2)", Nullable: "N"},
	},
}

var mockSampleRows = map[string]struct {
	columns []string
	rows    [][]any
}{
	"CUSTOMERS": {
		columns: []string{"CUSTOMER_ID", "CUSTOMER_NAME", "EMAIL", "CREATED_DATE"},
		rows: [][]any{
			{1, "John Doe", "john@email.com", "2023-01-01"},
			{2, "Jane Smith", "jane@email.com", "2023-01-02"},
			{3, "Bob Johnson", "bob@email.com", "2023-01-03"},
			{4, "Alice Brown", "alice@email.com", "2023-01-04"},
			{5, "Charlie Wilson", "charlie@email.com", "2023-01-05"},
		},
	},
	"ORDERS": {
		columns: []string{"ORDER_ID", "CUSTOMER_ID", "ORDER_DATE", "TOTAL_AMOUNT"},
		rows: [][]any{
			{101, 1, "2023-06-01", 250.00},
			{102, 2, "2023-06-02", 175.50},
			{103, 1, "2023-06-03", 320.75},
			{104, 3, "2023-06-04", 89.99},
			{105, 2, "2023-06-05", 445.25},
		},
	},
}

func (b *MockBackend) Connect(_ context.Context, p Params) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.params = p
	b.status = StatusConnected
	return nil
}

func (b *MockBackend) TestConnection(_ context.Context, _ Params) error {
	return nil
}

func (b *MockBackend) Disconnect() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = StatusDisconnected
	return nil
}

func (b *MockBackend) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *MockBackend) Dialect() nlsql.Dialect {
	return nlsql.OracleDialect{}
}

func (b *MockBackend) ListTables(_ context.Context) ([]string, error) {
	if b.Status() != StatusConnected {
		return nil, ErrNotConnected
	}
	tables := make([]string, len(mockTables))
	copy(tables, mockTables)
	return tables, nil
}

func (b *MockBackend) Describe(_ context.Context, table string) ([]Column, error) {
	if b.Status() != StatusConnected {
		return nil, ErrNotConnected
	}
	if cols, ok := mockColumns[strings.ToUpper(table)]; ok {
		out := make([]Column, len(cols))
		copy(out, cols)
		return out, nil
	}
	return []Column{
		{Name: "ID", Type: "NUMBER", Nullable: "N"},
		{Name: "NAME", Type: "VARCHAR2(100)", Nullable: "N"},
	}, nil
}

func (b *MockBackend) RowCount(_ context.Context, table string) (int64, error) {
	if b.Status() != StatusConnected {
		return 0, ErrNotConnected
	}
	if n, ok := mockRowCounts[strings.ToUpper(table)]; ok {
		return n, nil
	}
	return 100, nil
}

var (
	mockCountRe  = regexp.MustCompile(`(?i)^SELECT\s+COUNT\(\*\)\s+FROM\s+(\w+)`)
	mockSelectRe = regexp.MustCompile(`(?i)^SELECT\s+\*\s+FROM\s+(\w+)(?:\s+WHERE\s+ROWNUM\s*<=\s*(\d+))?`)
)

// Execute recognises the query shapes the translator produces and answers
// them from the canned catalog. Other SELECTs return a one-row placeholder;
// writes return an affected notice without touching anything.
func (b *MockBackend) Execute(ctx context.Context, query string) (Result, error) {
	if b.Status() != StatusConnected {
		return Result{}, ErrNotConnected
	}

	trimmed := strings.TrimSpace(query)
	upper := strings.ToUpper(trimmed)

	if !strings.HasPrefix(upper, "SELECT") {
		return Result{Notice: "Query executed successfully", RowCount: 1}, nil
	}

	if strings.Contains(upper, "USER_TABLES") {
		res := Result{Columns: []string{"TABLE_NAME"}}
		for _, t := range mockTables {
			res.Rows = append(res.Rows, []any{t})
		}
		res.RowCount = len(res.Rows)
		return res, nil
	}

	if strings.Contains(upper, "USER_TAB_COLUMNS") {
		table := extractQuoted(trimmed)
		cols, err := b.Describe(ctx, table)
		if err != nil {
			return Result{}, err
		}
		res := Result{Columns: []string{"COLUMN_NAME", "DATA_TYPE", "NULLABLE"}}
		for _, c := range cols {
			res.Rows = append(res.Rows, []any{c.Name, c.Type, c.Nullable})
		}
		res.RowCount = len(res.Rows)
		return res, nil
	}

	if m := mockCountRe.FindStringSubmatch(trimmed); m != nil {
		count, err := b.RowCount(ctx, m[1])
		if err != nil {
			return Result{}, err
		}
		return Result{
			Columns:  []string{"COUNT(*)"},
			Rows:     [][]any{{count}},
			RowCount: 1,
		}, nil
	}

	if m := mockSelectRe.FindStringSubmatch(trimmed); m != nil {
		limit := 0
		if m[2] != "" {
			limit, _ = strconv.Atoi(m[2])
		}
		return b.sampleResult(strings.ToUpper(m[1]), limit), nil
	}

	return Result{
		Columns:  []string{"RESULT"},
		Rows:     [][]any{{"Mock query executed successfully"}},
		RowCount: 1,
	}, nil
}

func (b *MockBackend) sampleResult(table string, limit int) Result {
	if sample, ok := mockSampleRows[table]; ok {
		rows := sample.rows
		if limit > 0 && limit < len(rows) {
			rows = rows[:limit]
		}
		out := make([][]any, len(rows))
		copy(out, rows)
		return Result{Columns: sample.columns, Rows: out, RowCount: len(out)}
	}

	n := 5
	if limit > 0 && limit < n {
		n = limit
	}
	res := Result{Columns: []string{"ID", "VALUE"}}
	for i := 1; i <= n; i++ {
		res.Rows = append(res.Rows, []any{i, fmt.Sprintf("Sample %d", i)})
	}
	res.RowCount = len(res.Rows)
	return res
}

var quotedRe = regexp.MustCompile(`'(\w+)'`)

func extractQuoted(s string) string {
	if m := quotedRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
