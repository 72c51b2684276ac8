// Package database provides the database session layer for the database
// chat agent: a Backend interface over connection lifecycle and query
// execution, with a driver-backed implementation and a mock implementation
// selected at construction time.
package database

import (
	"context"
	"errors"

	"agenthub/internal/nlsql"
)

// Status is the externally observable connection state. The connecting
// phase is transient and folded into Connect.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnected    Status = "connected"
)

// ErrNotConnected is returned by operations that require an open connection.
var ErrNotConnected = errors.New("no active connection")

// Params are the connection parameters collected from the user.
// UseSSL, Timeout, PoolSize and AutoCommit are accepted on every backend but
// only honored where the driver exposes a natural home for them; the mock
// backend carries them without effect.
type Params struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Service  string `json:"service_name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Schema   string `json:"schema,omitempty"`

	UseSSL     bool `json:"use_ssl,omitempty"`
	TimeoutSec int  `json:"timeout,omitempty"`
	PoolSize   int  `json:"pool_size,omitempty"`
	AutoCommit bool `json:"auto_commit,omitempty"`
}

// Column describes one column of a table.
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable string `json:"nullable"`
	Default  string `json:"default,omitempty"`
}

// Result is a tabular query outcome. For write statements Rows is nil and
// Notice carries the success message.
type Result struct {
	Columns  []string `json:"columns,omitempty"`
	Rows     [][]any  `json:"rows,omitempty"`
	Notice   string   `json:"notice,omitempty"`
	RowCount int      `json:"row_count"`
}

// Backend is a database session: disconnected until Connect succeeds,
// connected until Disconnect. Every operation that can fail returns an
// error value; nothing panics across this boundary.
type Backend interface {
	Connect(ctx context.Context, p Params) error
	TestConnection(ctx context.Context, p Params) error
	Execute(ctx context.Context, query string) (Result, error)
	ListTables(ctx context.Context) ([]string, error)
	Describe(ctx context.Context, table string) ([]Column, error)
	RowCount(ctx context.Context, table string) (int64, error)
	Disconnect() error
	Status() Status
	Dialect() nlsql.Dialect
}

// NewBackend resolves a backend kind name to a concrete implementation.
// Known kinds: "oracle", "sqlite" (driver-backed) and "mock".
func NewBackend(kind string) (Backend, error) {
	switch kind {
	case "mock":
		return NewMockBackend(), nil
	case "oracle", "sqlite":
		return NewSQLBackend(kind)
	default:
		return nil, errors.New("unknown database backend: " + kind)
	}
}
