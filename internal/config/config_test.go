package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestDefaults verifies default values survive loading an empty config file.
func TestDefaults(t *testing.T) {
	path := writeTempConfig(t, `{}`)

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want 4600", cfg.Server.Port)
	}
	if cfg.Database.Port != 1521 {
		t.Errorf("Database.Port = %d, want 1521", cfg.Database.Port)
	}
	if cfg.Database.Service != "ORCL" {
		t.Errorf("Database.Service = %q, want ORCL", cfg.Database.Service)
	}
	if cfg.Database.Backend != "mock" {
		t.Errorf("Database.Backend = %q, want mock", cfg.Database.Backend)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestFileBackendOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `{
		"server.port": 9999,
		"database.host": "db.internal",
		"database.backend": "oracle"
	}`)

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Database.Backend != "oracle" {
		t.Errorf("Database.Backend = %q, want oracle", cfg.Database.Backend)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeTempConfig(t, `{"server.port": 9999}`)

	t.Setenv("AGENTHUB_SERVER_PORT", "7001")
	t.Setenv("AGENTHUB_LOG_LEVEL", "debug")

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 7001 {
		t.Errorf("Server.Port = %d, want env override 7001", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestInvalidIntEnvIgnored(t *testing.T) {
	path := writeTempConfig(t, `{}`)

	t.Setenv("AGENTHUB_SERVER_PORT", "not-a-number")

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want default 4600 when env invalid", cfg.Server.Port)
	}
}

func TestMissingConfigFileUsesDefaults(t *testing.T) {
	cfg, err := loadWith(newFileBackend(filepath.Join(t.TempDir(), "absent.json")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want 4600", cfg.Server.Port)
	}
}

func TestValidKeysExcludesSecrets(t *testing.T) {
	for _, k := range ValidKeys() {
		if k == "server.api_token" {
			t.Error("ValidKeys should not include server.api_token")
		}
	}
}
