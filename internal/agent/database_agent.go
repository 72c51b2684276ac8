package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"agenthub/internal/database"
	"agenthub/internal/nlsql"
	"agenthub/internal/session"
)

const notConnectedReply = "I need to connect to a database first. Please configure the connection in the Connection Setup tab."

// DatabaseAgent answers natural-language questions about a connected
// database by translating them to SQL and executing the result. The backend
// (driver-backed or mock) is chosen per connection request.
type DatabaseAgent struct {
	Base

	mu      sync.Mutex
	backend database.Backend
	log     *database.QueryLog
}

func NewDatabaseAgent(cfg Config, store *session.Store) *DatabaseAgent {
	return &DatabaseAgent{
		Base: NewBase(cfg, store),
		log:  database.NewQueryLog(),
	}
}

// Connect builds the requested backend kind and opens it. The previous
// backend, if any, is disconnected first; on failure the agent keeps no
// backend and stays disconnected.
func (a *DatabaseAgent) Connect(ctx context.Context, kind string, p database.Params) error {
	backend, err := database.NewBackend(kind)
	if err != nil {
		return err
	}
	if err := backend.Connect(ctx, p); err != nil {
		return err
	}

	a.mu.Lock()
	if a.backend != nil {
		a.backend.Disconnect()
	}
	a.backend = backend
	a.mu.Unlock()

	a.UpdateSessionData(map[string]any{
		"backend":      kind,
		"host":         p.Host,
		"username":     p.Username,
		"service_name": p.Service,
	})
	return nil
}

// TestConnection probes the given parameters without touching the agent's
// own connection state.
func (a *DatabaseAgent) TestConnection(ctx context.Context, kind string, p database.Params) error {
	backend, err := database.NewBackend(kind)
	if err != nil {
		return err
	}
	return backend.TestConnection(ctx, p)
}

// Disconnect is idempotent.
func (a *DatabaseAgent) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.backend != nil {
		a.backend.Disconnect()
		a.backend = nil
	}
}

func (a *DatabaseAgent) Status() database.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.backend == nil {
		return database.StatusDisconnected
	}
	return a.backend.Status()
}

// Backend returns the active backend, or nil when disconnected.
func (a *DatabaseAgent) Backend() database.Backend {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.backend
}

func (a *DatabaseAgent) QueryLog() *database.QueryLog { return a.log }

// ProcessInput translates input to SQL against the live table catalog and
// executes it. Untranslatable input produces a clarification prompt, not an
// error; execution failures are reported in the reply and logged.
func (a *DatabaseAgent) ProcessInput(ctx context.Context, input string) (string, error) {
	backend := a.Backend()
	if backend == nil || backend.Status() != database.StatusConnected {
		return notConnectedReply, nil
	}

	tables, err := backend.ListTables(ctx)
	if err != nil {
		return "", fmt.Errorf("listing tables: %w", err)
	}

	query, ok := nlsql.New(backend.Dialect()).Translate(input, tables)
	if !ok {
		return "I couldn't convert that to a SQL query. Could you be more specific? For example: 'Show me all customers' or 'Count rows in the orders table'.", nil
	}

	result, err := backend.Execute(ctx, query)
	if err != nil {
		a.log.Append(input, query, false, err.Error(), 0)
		return fmt.Sprintf("**Query failed:**\n```sql\n%s\n```\n\n**Error:** %v", query, err), nil
	}
	a.log.Append(input, query, true, "", result.RowCount)

	if result.Notice != "" {
		return fmt.Sprintf("**Query executed successfully:**\n```sql\n%s\n```\n\n%s", query, result.Notice), nil
	}
	if len(result.Rows) == 0 {
		return fmt.Sprintf("**Query executed successfully:**\n```sql\n%s\n```\n\nQuery completed (no data returned).", query), nil
	}
	return fmt.Sprintf("**Query executed successfully:**\n```sql\n%s\n```\n\n**Results (%d rows):**\n%s",
		query, result.RowCount, formatResult(result)), nil
}

// formatResult renders a tabular result as a markdown table.
func formatResult(res database.Result) string {
	var sb strings.Builder
	sb.WriteString("| " + strings.Join(res.Columns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(res.Columns)) + "\n")
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}

const tableCountLimit = 10

func (a *DatabaseAgent) QuickActions() []QuickAction {
	return []QuickAction{
		{Name: "show_tables", Label: "Show Tables", Question: "Show all tables"},
		{Name: "table_counts", Label: "Table Sizes", Question: "Show table row counts"},
		{Name: "db_info", Label: "Database Info", Question: "Show database information"},
	}
}

func (a *DatabaseAgent) RunQuickAction(ctx context.Context, name string) (string, error) {
	backend := a.Backend()
	if backend == nil || backend.Status() != database.StatusConnected {
		return notConnectedReply, nil
	}

	switch name {
	case "show_tables":
		tables, err := backend.ListTables(ctx)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "**Available tables (%d):**\n", len(tables))
		for _, t := range tables {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
		return sb.String(), nil

	case "table_counts":
		tables, err := backend.ListTables(ctx)
		if err != nil {
			return "", err
		}
		if len(tables) > tableCountLimit {
			tables = tables[:tableCountLimit]
		}
		var sb strings.Builder
		sb.WriteString("**Table row counts:**\n")
		for _, t := range tables {
			count, err := backend.RowCount(ctx, t)
			if err != nil {
				fmt.Fprintf(&sb, "- %s: unavailable (%v)\n", t, err)
				continue
			}
			fmt.Fprintf(&sb, "- %s: %d rows\n", t, count)
		}
		return sb.String(), nil

	case "db_info":
		tables, err := backend.ListTables(ctx)
		if err != nil {
			return "", err
		}
		data := a.SessionData()
		var sb strings.Builder
		sb.WriteString("**Database Information:**\n")
		fmt.Fprintf(&sb, "- Backend: %v\n", data.Context["backend"])
		if host, ok := data.Context["host"]; ok && host != "" {
			fmt.Fprintf(&sb, "- Host: %v\n", host)
		}
		if svc, ok := data.Context["service_name"]; ok && svc != "" {
			fmt.Fprintf(&sb, "- Service: %v\n", svc)
		}
		fmt.Fprintf(&sb, "- Tables: %d\n", len(tables))
		return sb.String(), nil

	default:
		return "", fmt.Errorf("unknown quick action %q", name)
	}
}
