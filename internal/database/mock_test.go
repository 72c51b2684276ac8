package database

import (
	"context"
	"errors"
	"testing"
)

func connectedMock(t *testing.T) *MockBackend {
	t.Helper()
	b := NewMockBackend()
	if err := b.Connect(context.Background(), Params{Host: "localhost", Port: 1521, Service: "ORCL", Username: "demo", Password: "demo"}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return b
}

func TestMockInitialStatus(t *testing.T) {
	b := NewMockBackend()
	if got := b.Status(); got != StatusDisconnected {
		t.Errorf("Status = %q, want disconnected", got)
	}
}

// Disconnect from disconnected is a no-op, not an error.
func TestMockDisconnectIdempotent(t *testing.T) {
	b := NewMockBackend()
	if err := b.Disconnect(); err != nil {
		t.Fatalf("Disconnect on disconnected session: %v", err)
	}
	if got := b.Status(); got != StatusDisconnected {
		t.Errorf("Status = %q, want disconnected", got)
	}
}

// Execute while disconnected fails with a tagged error and never reaches a
// network.
func TestMockExecuteDisconnected(t *testing.T) {
	b := NewMockBackend()
	_, err := b.Execute(context.Background(), "SELECT * FROM CUSTOMERS")
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

func TestMockConnectTransitions(t *testing.T) {
	b := connectedMock(t)
	if got := b.Status(); got != StatusConnected {
		t.Fatalf("Status = %q, want connected", got)
	}
	if err := b.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if got := b.Status(); got != StatusDisconnected {
		t.Errorf("Status after disconnect = %q, want disconnected", got)
	}
}

func TestMockListTables(t *testing.T) {
	b := connectedMock(t)

	tables, err := b.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(tables) != 7 {
		t.Fatalf("got %d tables, want 7", len(tables))
	}
	if tables[0] != "CUSTOMERS" {
		t.Errorf("tables[0] = %q, want CUSTOMERS", tables[0])
	}
}

func TestMockExecuteCount(t *testing.T) {
	b := connectedMock(t)

	res, err := b.Execute(context.Background(), "SELECT COUNT(*) FROM CUSTOMERS")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.RowCount != 1 || len(res.Rows) != 1 {
		t.Fatalf("unexpected result shape: %+v", res)
	}
	if got := res.Rows[0][0]; got != int64(1247) {
		t.Errorf("count = %v, want 1247", got)
	}
}

func TestMockExecuteSample(t *testing.T) {
	b := connectedMock(t)

	res, err := b.Execute(context.Background(), "SELECT * FROM ORDERS WHERE ROWNUM <= 3")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Rows) != 3 {
		t.Errorf("got %d rows, want 3 (ROWNUM limit)", len(res.Rows))
	}
	if res.Columns[0] != "ORDER_ID" {
		t.Errorf("Columns[0] = %q, want ORDER_ID", res.Columns[0])
	}
}

func TestMockExecuteListTablesQuery(t *testing.T) {
	b := connectedMock(t)

	res, err := b.Execute(context.Background(), "SELECT table_name FROM user_tables ORDER BY table_name")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Rows) != len(mockTables) {
		t.Errorf("got %d rows, want %d", len(res.Rows), len(mockTables))
	}
}

func TestMockExecuteDescribeQuery(t *testing.T) {
	b := connectedMock(t)

	res, err := b.Execute(context.Background(), "SELECT column_name, data_type, nullable FROM user_tab_columns WHERE table_name = 'CUSTOMERS' ORDER BY column_id")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Rows) != 4 {
		t.Fatalf("got %d columns, want 4", len(res.Rows))
	}
	if res.Rows[0][0] != "CUSTOMER_ID" {
		t.Errorf("first column = %v, want CUSTOMER_ID", res.Rows[0][0])
	}
}

func TestMockExecuteWrite(t *testing.T) {
	b := connectedMock(t)

	res, err := b.Execute(context.Background(), "UPDATE CUSTOMERS SET EMAIL = 'x'")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Notice == "" {
		t.Error("expected an affected notice for a write statement")
	}
	if res.Rows != nil {
		t.Error("write statement should not return rows")
	}
}

func TestMockRowCountFallback(t *testing.T) {
	b := connectedMock(t)

	n, err := b.RowCount(context.Background(), "SALES")
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if n != 100 {
		t.Errorf("RowCount(SALES) = %d, want fallback 100", n)
	}
}
