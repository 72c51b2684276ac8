// Package api implements the REST surface: agent discovery and chat,
// database connection management, document uploads, and BRD generation
// and export.
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"agenthub/internal/agent"
	"agenthub/internal/brd"
	"agenthub/internal/database"
	"agenthub/internal/document"
	"agenthub/internal/export"
	"agenthub/internal/registry"
	"agenthub/internal/session"
)

const maxRequestBodySize = 1 << 20 // 1MB
const maxUploadBodySize = 10 << 20 // 10MB

// Deps holds everything the handlers need.
type Deps struct {
	Registry *registry.Registry
	Driver   *agent.Driver
	Store    *session.Store
	Token    string
	Now      func() time.Time // nil means time.Now
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// NewHandler builds the router. The health probe is unauthenticated;
// everything else sits behind bearer auth.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Get("/agents", handleListAgents(deps))
		r.Post("/agents/{id}/chat", handleChat(deps))
		r.Get("/agents/{id}/conversation", handleGetConversation(deps))
		r.Delete("/agents/{id}/conversation", handleClearConversation(deps))
		r.Delete("/agents/{id}/session", handleResetSession(deps))
		r.Post("/agents/{id}/quick/{action}", handleQuickAction(deps))

		r.Post("/database/connection", handleConnect(deps))
		r.Delete("/database/connection", handleDisconnect(deps))
		r.Post("/database/connection/test", handleTestConnection(deps))
		r.Get("/database/tables", handleListTables(deps))
		r.Get("/database/tables/{table}", handleDescribeTable(deps))
		r.Get("/database/history", handleQueryHistory(deps))

		r.Post("/documents", handleUploadDocument(deps))
		r.Post("/brd", handleGenerateBRD(deps))
		r.Get("/brd/export/{format}", handleExportBRD(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleListAgents(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"agents": deps.Registry.DescribeAll()})
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := deps.Registry.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "agent not found")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		response := deps.Driver.RunTurn(r.Context(), a, req.Message)
		writeJSON(w, map[string]any{
			"agent_id": a.ID(),
			"response": response,
		})
	}
}

func handleGetConversation(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := deps.Registry.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "agent not found")
			return
		}

		limit := parseIntParam(r, "limit", 20, 200)
		messages := deps.Store.Conversation(a.ID())
		if len(messages) > limit {
			messages = messages[len(messages)-limit:]
		}
		if messages == nil {
			messages = []session.Message{}
		}

		writeJSON(w, map[string]any{
			"agent_id": a.ID(),
			"messages": messages,
		})
	}
}

func handleClearConversation(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := deps.Registry.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "agent not found")
			return
		}
		deps.Driver.ClearChat(a.ID())
		writeJSON(w, map[string]string{"status": "cleared"})
	}
}

func handleResetSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := deps.Registry.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "agent not found")
			return
		}
		deps.Driver.Reset(a.ID())
		writeJSON(w, map[string]string{"status": "reset"})
	}
}

func handleQuickAction(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := deps.Registry.Get(chi.URLParam(r, "id"))
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "agent not found")
			return
		}

		response, err := deps.Driver.RunQuickAction(r.Context(), a, chi.URLParam(r, "action"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}
		writeJSON(w, map[string]any{
			"agent_id": a.ID(),
			"response": response,
		})
	}
}

// databaseAgent resolves the registered database assistant; a fallback
// registration means the concrete type assertion fails.
func databaseAgent(deps Deps) (*agent.DatabaseAgent, error) {
	a, ok := deps.Registry.Get(agent.DatabaseChatID)
	if !ok {
		return nil, errors.New("database agent not registered")
	}
	dba, ok := a.(*agent.DatabaseAgent)
	if !ok {
		return nil, errors.New("database agent unavailable")
	}
	return dba, nil
}

func brdAgent(deps Deps) (*agent.BRDAgent, error) {
	a, ok := deps.Registry.Get(agent.BRDGeneratorID)
	if !ok {
		return nil, errors.New("BRD agent not registered")
	}
	ba, ok := a.(*agent.BRDAgent)
	if !ok {
		return nil, errors.New("BRD agent unavailable")
	}
	return ba, nil
}

type connectionRequest struct {
	Backend string `json:"backend"`
	database.Params
}

func handleConnect(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dba, err := databaseAgent(deps)
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "%v", err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req connectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Backend == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "backend is required")
			return
		}

		if err := dba.Connect(r.Context(), req.Backend, req.Params); err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "connection failed: %v", err)
			return
		}
		writeJSON(w, map[string]string{
			"status":  "connected",
			"backend": req.Backend,
		})
	}
}

func handleDisconnect(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dba, err := databaseAgent(deps)
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "%v", err)
			return
		}
		dba.Disconnect()
		writeJSON(w, map[string]string{"status": "disconnected"})
	}
}

func handleTestConnection(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dba, err := databaseAgent(deps)
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "%v", err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req connectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Backend == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "backend is required")
			return
		}

		if err := dba.TestConnection(r.Context(), req.Backend, req.Params); err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "connection test failed: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	}
}

// connectedBackend returns the live backend or writes the 409 itself.
func connectedBackend(w http.ResponseWriter, deps Deps) database.Backend {
	dba, err := databaseAgent(deps)
	if err != nil {
		httpError(w, http.StatusServiceUnavailable, "api_error", "%v", err)
		return nil
	}
	backend := dba.Backend()
	if backend == nil || backend.Status() != database.StatusConnected {
		httpError(w, http.StatusConflict, "not_connected", "no active database connection")
		return nil
	}
	return backend
}

func handleListTables(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backend := connectedBackend(w, deps)
		if backend == nil {
			return
		}
		tables, err := backend.ListTables(r.Context())
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list tables: %v", err)
			return
		}
		if tables == nil {
			tables = []string{}
		}
		writeJSON(w, map[string]any{"tables": tables})
	}
}

func handleDescribeTable(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backend := connectedBackend(w, deps)
		if backend == nil {
			return
		}
		table := chi.URLParam(r, "table")

		columns, err := backend.Describe(r.Context(), table)
		if err != nil {
			httpError(w, http.StatusNotFound, "not_found", "failed to describe table: %v", err)
			return
		}
		count, err := backend.RowCount(r.Context(), table)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to count rows: %v", err)
			return
		}

		writeJSON(w, map[string]any{
			"table":     table,
			"columns":   columns,
			"row_count": count,
		})
	}
}

func handleQueryHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dba, err := databaseAgent(deps)
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "%v", err)
			return
		}
		limit := parseIntParam(r, "limit", 20, 100)
		history := dba.QueryLog().Recent(limit)
		if history == nil {
			history = []database.LogEntry{}
		}
		writeJSON(w, map[string]any{"history": history})
	}
}

type uploadRequest struct {
	Filename        string `json:"filename"`
	Content         string `json:"content"` // base64
	ExtractImages   bool   `json:"extract_images"`
	ExtractFormulas bool   `json:"extract_formulas"`
}

func handleUploadDocument(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ba, err := brdAgent(deps)
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "%v", err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
		defer r.Body.Close()

		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Filename == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "filename is required")
			return
		}
		data, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid base64 content")
			return
		}

		ext, err := document.Process(req.Filename, data, document.Options{
			ExtractImages:   req.ExtractImages,
			ExtractFormulas: req.ExtractFormulas,
		})
		if err != nil {
			httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "document processing failed: %v", err)
			return
		}

		ba.SetDocument(ext)
		writeJSON(w, map[string]any{
			"name":     ext.Name,
			"analysis": ext.Analysis,
			"formulas": ext.Formulas,
		})
	}
}

func handleGenerateBRD(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ba, err := brdAgent(deps)
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "%v", err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var opts brd.Options
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		result, err := ba.Generate(opts)
		if err != nil {
			httpError(w, http.StatusConflict, "invalid_request_error", "%v", err)
			return
		}
		writeJSON(w, result)
	}
}

var exportFormats = map[string]struct {
	ext         string
	contentType string
	render      func(brd.BRD) ([]byte, error)
}{
	"json":  {"json", "application/json", export.ToJSON},
	"pdf":   {"pdf", "application/pdf", export.ToPDF},
	"word":  {"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", export.ToWord},
	"excel": {"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.ToExcel},
}

func handleExportBRD(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ba, err := brdAgent(deps)
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "%v", err)
			return
		}

		format, ok := exportFormats[chi.URLParam(r, "format")]
		if !ok {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unsupported export format %q", chi.URLParam(r, "format"))
			return
		}

		result, ok := ba.CurrentBRD()
		if !ok {
			httpError(w, http.StatusConflict, "invalid_request_error", "no BRD has been generated")
			return
		}

		data, err := format.render(result)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "export failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", format.contentType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.Filename(format.ext, deps.now())))
		w.Write(data)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
