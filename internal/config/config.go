package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Export   ExportConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port     int
	APIToken string
}

// DatabaseConfig holds the defaults pre-filled into the connection form;
// actual connection parameters are supplied per-session over the API.
type DatabaseConfig struct {
	Host    string
	Port    int
	Service string
	Backend string
}

type StorageConfig struct {
	DataDir string
}

type ExportConfig struct {
	Dir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    1521,
			Service: "ORCL",
			Backend: "mock",
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Export: ExportConfig{
			Dir: filepath.Join(dataDir, "exports"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a JSON file at
// $XDG_CONFIG_HOME/agenthub/config.json, then applies AGENTHUB_* environment
// variable overrides. A .env file in the working directory, if present, is
// loaded into the environment first.
func Load() (Config, error) {
	// A missing .env is the normal case; godotenv only errors on read failure.
	_ = godotenv.Load()
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "agenthub-data"
		}
	}
	return filepath.Join(dir, "agenthub")
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "agenthub", "config.json")
}
