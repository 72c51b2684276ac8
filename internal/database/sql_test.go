package database

import (
	"context"
	"errors"
	"testing"
)

// openSQLite connects a SQLBackend to an in-memory SQLite database and
// seeds a small schema. Pool size 1 keeps every statement on the single
// connection that owns the in-memory database.
func openSQLite(t *testing.T) *SQLBackend {
	t.Helper()

	b, err := NewSQLBackend("sqlite")
	if err != nil {
		t.Fatalf("NewSQLBackend: %v", err)
	}
	if err := b.Connect(context.Background(), Params{Service: ":memory:", PoolSize: 1}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { b.Disconnect() })

	ctx := context.Background()
	stmts := []string{
		"CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
		"INSERT INTO customers (id, name) VALUES (1, 'John Doe'), (2, 'Jane Smith')",
	}
	for _, stmt := range stmts {
		if _, err := b.Execute(ctx, stmt); err != nil {
			t.Fatalf("seeding schema: %v", err)
		}
	}
	return b
}

func TestSQLBackendUnknownDriver(t *testing.T) {
	if _, err := NewSQLBackend("postgres"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestSQLBackendExecuteDisconnected(t *testing.T) {
	b, err := NewSQLBackend("sqlite")
	if err != nil {
		t.Fatalf("NewSQLBackend: %v", err)
	}
	if _, err := b.Execute(context.Background(), "SELECT 1"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

func TestSQLBackendDisconnectIdempotent(t *testing.T) {
	b, _ := NewSQLBackend("sqlite")
	if err := b.Disconnect(); err != nil {
		t.Fatalf("Disconnect on disconnected session: %v", err)
	}
	if got := b.Status(); got != StatusDisconnected {
		t.Errorf("Status = %q, want disconnected", got)
	}
}

func TestSQLBackendSelect(t *testing.T) {
	b := openSQLite(t)

	res, err := b.Execute(context.Background(), "SELECT id, name FROM customers ORDER BY id")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.RowCount != 2 {
		t.Fatalf("RowCount = %d, want 2", res.RowCount)
	}
	if res.Columns[1] != "name" {
		t.Errorf("Columns[1] = %q, want name", res.Columns[1])
	}
	if res.Rows[0][1] != "John Doe" {
		t.Errorf("Rows[0][1] = %v, want John Doe", res.Rows[0][1])
	}
}

func TestSQLBackendWriteNotice(t *testing.T) {
	b := openSQLite(t)

	res, err := b.Execute(context.Background(), "UPDATE customers SET name = 'X' WHERE id = 1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Notice == "" {
		t.Error("expected affected notice for write statement")
	}
	if res.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1 affected", res.RowCount)
	}
}

// A failing query leaves the connection state untouched.
func TestSQLBackendQueryErrorKeepsConnection(t *testing.T) {
	b := openSQLite(t)

	if _, err := b.Execute(context.Background(), "SELECT * FROM no_such_table"); err == nil {
		t.Fatal("expected error for missing table")
	}
	if got := b.Status(); got != StatusConnected {
		t.Errorf("Status after failed query = %q, want connected", got)
	}

	if _, err := b.Execute(context.Background(), "SELECT COUNT(*) FROM customers"); err != nil {
		t.Errorf("connection unusable after failed query: %v", err)
	}
}

func TestSQLBackendListTables(t *testing.T) {
	b := openSQLite(t)

	tables, err := b.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(tables) != 1 || tables[0] != "customers" {
		t.Errorf("tables = %v, want [customers]", tables)
	}
}

func TestSQLBackendDescribe(t *testing.T) {
	b := openSQLite(t)

	cols, err := b.Describe(context.Background(), "customers")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if len(cols) != 2 {
		t.Fatalf("got %d columns, want 2", len(cols))
	}
	if cols[0].Name != "id" {
		t.Errorf("cols[0].Name = %q, want id", cols[0].Name)
	}
	if cols[1].Nullable != "N" {
		t.Errorf("cols[1].Nullable = %q, want N (NOT NULL column)", cols[1].Nullable)
	}
}

func TestSQLBackendRowCount(t *testing.T) {
	b := openSQLite(t)

	n, err := b.RowCount(context.Background(), "customers")
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if n != 2 {
		t.Errorf("RowCount = %d, want 2", n)
	}
}

func TestSQLBackendTestConnectionDoesNotMutate(t *testing.T) {
	b, _ := NewSQLBackend("sqlite")

	if err := b.TestConnection(context.Background(), Params{Service: ":memory:", PoolSize: 1}); err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
	if got := b.Status(); got != StatusDisconnected {
		t.Errorf("Status after TestConnection = %q, want disconnected", got)
	}
}

func TestNewBackendResolution(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"mock", false},
		{"sqlite", false},
		{"oracle", false},
		{"mysql", true},
		{"", true},
	}
	for _, tc := range tests {
		_, err := NewBackend(tc.kind)
		if (err != nil) != tc.wantErr {
			t.Errorf("NewBackend(%q) err = %v, wantErr %v", tc.kind, err, tc.wantErr)
		}
	}
}
