package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration, merging file defaults and
// environment overrides so both local and deployed runs work without edits.
type Config struct {
	Port     int
	LogLevel string

	// DBPath is the SQLite file used when DBURL is empty.
	DBPath string
	// DBURL switches persistence to Postgres (pgx) when set.
	DBURL string

	AuthUser string
	AuthPass string
}

// configFile mirrors the YAML schema of config.yaml. It is separate from
// Config so runtime-only fields stay internal.
type configFile struct {
	Server struct {
		Port     int    `yaml:"port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
		URL  string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		User string `yaml:"user"`
		Pass string `yaml:"pass"`
	} `yaml:"auth"`
}

// Load resolves configuration in priority order: defaults -> file -> env.
// A missing file is not an error; env-only deployments are supported.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:     8080,
		LogLevel: "info",
		DBPath:   "./data/ledgerpress.db",
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Server.Port > 0 {
			cfg.Port = f.Server.Port
		}
		if f.Server.LogLevel != "" {
			cfg.LogLevel = f.Server.LogLevel
		}
		if f.Database.Path != "" {
			cfg.DBPath = f.Database.Path
		}
		if f.Database.URL != "" {
			cfg.DBURL = f.Database.URL
		}
		if f.Auth.User != "" {
			cfg.AuthUser = f.Auth.User
		}
		if f.Auth.Pass != "" {
			cfg.AuthPass = f.Auth.Pass
		}
	}

	cfg.Port = envInt("PORT", cfg.Port)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.DBPath = envOrDefault("DB_PATH", cfg.DBPath)
	cfg.DBURL = envOrDefault("DB_URL", cfg.DBURL)
	cfg.AuthUser = envOrDefault("AUTH_USER", cfg.AuthUser)
	cfg.AuthPass = envOrDefault("AUTH_PASS", cfg.AuthPass)

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
