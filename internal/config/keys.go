package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "AGENTHUB_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.api_token", typ: kString, env: "AGENTHUB_API_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Server.APIToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.APIToken },
	},
	{
		key: "database.host", typ: kString, env: "AGENTHUB_DATABASE_HOST",
		apply:   func(cfg *Config, v any) { cfg.Database.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Database.Host },
	},
	{
		key: "database.port", typ: kInt, env: "AGENTHUB_DATABASE_PORT",
		apply:   func(cfg *Config, v any) { cfg.Database.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Database.Port },
	},
	{
		key: "database.service", typ: kString, env: "AGENTHUB_DATABASE_SERVICE",
		apply:   func(cfg *Config, v any) { cfg.Database.Service = v.(string) },
		extract: func(cfg Config) any { return cfg.Database.Service },
	},
	{
		key: "database.backend", typ: kString, env: "AGENTHUB_DATABASE_BACKEND",
		apply:   func(cfg *Config, v any) { cfg.Database.Backend = v.(string) },
		extract: func(cfg Config) any { return cfg.Database.Backend },
	},
	{
		key: "storage.data_dir", typ: kString, env: "AGENTHUB_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "export.dir", typ: kString, env: "AGENTHUB_EXPORT_DIR",
		apply:   func(cfg *Config, v any) { cfg.Export.Dir = v.(string) },
		extract: func(cfg Config) any { return cfg.Export.Dir },
	},
	{
		key: "log.level", typ: kString, env: "AGENTHUB_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
