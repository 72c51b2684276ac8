package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"agenthub/internal/database"
	"agenthub/internal/nlsql"
)

// NewMCPServer creates an MCP server exposing the agents over stdio.
func NewMCPServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"agenthub",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("agenthub — BRD generation and natural-language database assistant."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_agents",
			mcp.WithDescription("List the available agents with their capabilities and status."),
		),
		mcpListAgents(deps),
	)

	s.AddTool(
		mcp.NewTool("chat",
			mcp.WithDescription("Send a message to an agent and return its reply."),
			mcp.WithString("agent", mcp.Description("Agent id (e.g. brd_generator, database_chat)"), mcp.Required()),
			mcp.WithString("message", mcp.Description("The message to send"), mcp.Required()),
		),
		mcpChat(deps),
	)

	s.AddTool(
		mcp.NewTool("translate_sql",
			mcp.WithDescription("Translate a natural-language question into SQL without executing it."),
			mcp.WithString("question", mcp.Description("The question to translate"), mcp.Required()),
		),
		mcpTranslateSQL(deps),
	)

	s.AddTool(
		mcp.NewTool("list_tables",
			mcp.WithDescription("List the tables visible on the active database connection."),
		),
		mcpListTables(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"agenthub://history",
			"Query History",
			mcp.WithResourceDescription("Recent natural-language query translations and their outcomes"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceHistory(deps),
	)

	return s
}

func mcpListAgents(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(deps.Registry.DescribeAll())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal agents: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpChat(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		agentID, err := req.RequireString("agent")
		if err != nil {
			return mcpError("agent is required"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		a, ok := deps.Registry.Get(agentID)
		if !ok {
			return mcpError(fmt.Sprintf("unknown agent %q", agentID)), nil
		}

		return mcpText(deps.Driver.RunTurn(ctx, a, message)), nil
	}
}

func mcpTranslateSQL(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		dba, err := databaseAgent(deps)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		backend := dba.Backend()
		if backend == nil || backend.Status() != database.StatusConnected {
			return mcpError("no active database connection"), nil
		}

		tables, err := backend.ListTables(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list tables: %v", err)), nil
		}

		query, ok := nlsql.New(backend.Dialect()).Translate(question, tables)
		if !ok {
			return mcpText(`{"translated":false}`), nil
		}
		b, err := json.Marshal(map[string]any{"translated": true, "sql": query})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListTables(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dba, err := databaseAgent(deps)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		backend := dba.Backend()
		if backend == nil || backend.Status() != database.StatusConnected {
			return mcpError("no active database connection"), nil
		}

		tables, err := backend.ListTables(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list tables: %v", err)), nil
		}
		b, err := json.Marshal(tables)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal tables: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceHistory(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dba, err := databaseAgent(deps)
		if err != nil {
			return nil, err
		}

		b, err := json.Marshal(dba.QueryLog().Recent(10))
		if err != nil {
			return nil, fmt.Errorf("marshaling history: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
