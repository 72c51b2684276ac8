package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agenthub/internal/database"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

func TestChatRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /agents/database_chat/chat": `{"agent_id":"database_chat","response":"done"}`,
	})

	client := ts.client()

	resp, err := client.post("/agents/database_chat/chat", map[string]string{"message": "how many orders"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result responseEnvelope
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.Response != "done" {
		t.Errorf("response = %q, want %q", result.Response, "done")
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["message"] != "how many orders" {
		t.Errorf("body.message = %q", body["message"])
	}
}

func TestDBHistoryDecodesServerEntries(t *testing.T) {
	entry := database.LogEntry{
		Question:  "how many orders",
		SQL:       "SELECT COUNT(*) FROM ORDERS",
		Timestamp: "2026-01-15 14:30:00",
		Success:   true,
		RowCount:  1,
	}
	payload, err := json.Marshal(map[string]any{"history": []database.LogEntry{entry}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	ts := newTestServer(t, map[string]string{
		"GET /database/history": string(payload),
	})

	resp, err := ts.client().get("/database/history?limit=5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result struct {
		History []historyEntry `json:"history"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(result.History) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.History))
	}

	got := result.History[0]
	if got.SQL != entry.SQL {
		t.Errorf("sql = %q, want %q", got.SQL, entry.SQL)
	}
	if got.Question != entry.Question {
		t.Errorf("question = %q, want %q", got.Question, entry.Question)
	}
	if !got.Success || got.RowCount != 1 {
		t.Errorf("success = %v, row count = %d", got.Success, got.RowCount)
	}
}

func TestChatCommand_MissingMessage(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"chat"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing args")
	}
}

func TestNewAPIClientRequiresToken(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AGENTHUB_API_TOKEN", "")

	_, err := newAPIClient()
	if err == nil {
		t.Fatal("expected error when no token is configured")
	}
	if !strings.Contains(err.Error(), "AGENTHUB_API_TOKEN") {
		t.Errorf("error = %q, want it to point at AGENTHUB_API_TOKEN", err.Error())
	}
}

func TestDecodeJSONErrorBody(t *testing.T) {
	ts := newTestServer(t, nil)
	client := ts.client()

	resp, err := client.get("/missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out map[string]any
	err = decodeJSON(resp, &out)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q, want it to mention status 404", err.Error())
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := pidFilePath(dir)

	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	pid, err := readPIDFile(path)
	if err != nil {
		t.Fatalf("readPIDFile: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}

	removePIDFile(path)
	if _, err := readPIDFile(path); err == nil {
		t.Fatal("readPIDFile after remove: want error")
	}
}

func TestPIDFilePath(t *testing.T) {
	got := pidFilePath("/tmp/data")
	want := filepath.Join("/tmp/data", "agenthub.pid")
	if got != want {
		t.Errorf("pidFilePath = %q, want %q", got, want)
	}
}

func TestColorizeRespectsNoColor(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	if result := colorize(colorGreen, "hello"); strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	if result := colorize(colorGreen, "hello"); !strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}
