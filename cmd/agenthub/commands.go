package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"agenthub/internal/config"
)

// --- agents ---

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List available agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get("/agents")
		if err != nil {
			return err
		}

		var result struct {
			Agents []struct {
				ID           string `json:"id"`
				Name         string `json:"name"`
				Description  string `json:"description"`
				Status       string `json:"status"`
				Capabilities []struct {
					Name string `json:"name"`
				} `json:"capabilities"`
			} `json:"agents"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		for _, a := range result.Agents {
			status := a.Status
			if status == "active" {
				status = colorize(colorGreen, status)
			} else {
				status = colorize(colorYellow, status)
			}
			fmt.Printf("%s  [%s]\n", colorize(colorBold, a.ID), status)
			fmt.Printf("  %s\n", a.Description)
			for _, c := range a.Capabilities {
				fmt.Printf("  - %s\n", c.Name)
			}
			fmt.Println()
		}
		return nil
	},
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat <agent> <message...>",
	Short: "Send a message to an agent",
	Long: `Send a message to an agent and print its reply.

Examples:
  agenthub chat database_chat "show me all customers"
  agenthub chat brd_generator "generate a brd"
  agenthub chat database_chat --quick show_tables`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agentID := args[0]
		quick, _ := cmd.Flags().GetString("quick")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var resp *responseEnvelope
		switch {
		case quick != "":
			r, err := client.post(fmt.Sprintf("/agents/%s/quick/%s", agentID, quick), nil)
			if err != nil {
				return err
			}
			resp = &responseEnvelope{}
			if err := decodeJSON(r, resp); err != nil {
				return err
			}
		case len(args) >= 2:
			message := strings.Join(args[1:], " ")
			r, err := client.post("/agents/"+agentID+"/chat", map[string]string{"message": message})
			if err != nil {
				return err
			}
			resp = &responseEnvelope{}
			if err := decodeJSON(r, resp); err != nil {
				return err
			}
		default:
			return fmt.Errorf("a message or --quick action is required")
		}

		fmt.Println(resp.Response)
		return nil
	},
}

type responseEnvelope struct {
	AgentID  string `json:"agent_id"`
	Response string `json:"response"`
}

func init() {
	chatCmd.Flags().String("quick", "", "run a quick action instead of sending a message")
}

// --- db ---

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database connection",
}

var dbConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the database assistant to a database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		backend, _ := cmd.Flags().GetString("backend")
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		service, _ := cmd.Flags().GetString("service")

		if backend == "" {
			backend = cfg.Database.Backend
		}
		if host == "" {
			host = cfg.Database.Host
		}
		if port == 0 {
			port = cfg.Database.Port
		}
		if service == "" {
			service = cfg.Database.Service
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"backend":      backend,
			"host":         host,
			"port":         port,
			"username":     username,
			"password":     password,
			"service_name": service,
		}
		resp, err := client.post("/database/connection", req)
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Connected (%s backend)", result["backend"])
		return nil
	},
}

var dbDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Close the active database connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete("/database/connection")
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Disconnected")
		return nil
	},
}

var dbTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables on the active connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get("/database/tables")
		if err != nil {
			return err
		}
		var result struct {
			Tables []string `json:"tables"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		for _, t := range result.Tables {
			fmt.Println(t)
		}
		return nil
	},
}

// historyEntry mirrors the fields the server emits for each query log record.
type historyEntry struct {
	Timestamp string `json:"timestamp"`
	Question  string `json:"question"`
	SQL       string `json:"sql"`
	Success   bool   `json:"success"`
	RowCount  int    `json:"row_count"`
}

var dbHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent natural-language query translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(fmt.Sprintf("/database/history?limit=%d", limit))
		if err != nil {
			return err
		}
		var result struct {
			History []historyEntry `json:"history"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.History) == 0 {
			fmt.Println("No queries recorded.")
			return nil
		}
		for _, e := range result.History {
			marker := colorize(colorGreen, "ok")
			if !e.Success {
				marker = colorize(colorRed, "failed")
			}
			fmt.Printf("%s  [%s]  %s\n", e.Timestamp, marker, e.Question)
			fmt.Printf("  %s\n", colorize(colorCyan, e.SQL))
		}
		return nil
	},
}

func init() {
	dbConnectCmd.Flags().String("backend", "", "backend kind: oracle, sqlite, or mock (default from config)")
	dbConnectCmd.Flags().String("host", "", "database host")
	dbConnectCmd.Flags().Int("port", 0, "database port")
	dbConnectCmd.Flags().String("username", "", "database username")
	dbConnectCmd.Flags().String("password", "", "database password")
	dbConnectCmd.Flags().String("service", "", "service name (oracle) or file path (sqlite)")
	dbHistoryCmd.Flags().Int("limit", 20, "maximum number of entries")

	dbCmd.AddCommand(dbConnectCmd)
	dbCmd.AddCommand(dbDisconnectCmd)
	dbCmd.AddCommand(dbTablesCmd)
	dbCmd.AddCommand(dbHistoryCmd)
}

// --- upload ---

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a document to the BRD generator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{
			"filename":         args[0],
			"content":          base64.StdEncoding.EncodeToString(data),
			"extract_formulas": true,
		}
		resp, err := client.post("/documents", req)
		if err != nil {
			return err
		}

		var result struct {
			Name     string `json:"name"`
			Analysis struct {
				DocumentType           string   `json:"document_type"`
				WordCount              int      `json:"word_count"`
				RegulatoryFrameworks   []string `json:"regulatory_frameworks"`
				MathematicalComplexity string   `json:"mathematical_complexity"`
			} `json:"analysis"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Processed %s", result.Name)
		printStatus("Type", "%s", result.Analysis.DocumentType)
		printStatus("Words", "%d", result.Analysis.WordCount)
		printStatus("Math complexity", "%s", result.Analysis.MathematicalComplexity)
		if len(result.Analysis.RegulatoryFrameworks) > 0 {
			printStatus("Frameworks", "%s", strings.Join(result.Analysis.RegulatoryFrameworks, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

