package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// CLIOverrides holds the values passed as flags to cmd/officex-drive-engine;
// the outermost, highest-priority layer. A zero value field means "flag not
// set" so it never masks a lower layer.
type CLIOverrides struct {
	ListenAddr   string
	DatabasePath string
	DriveID      string
	OwnerID      string
	LogLevel     string
}

func (c CLIOverrides) apply(cfg *Config) {
	if c.ListenAddr != "" {
		cfg.ListenAddr = c.ListenAddr
	}
	if c.DatabasePath != "" {
		cfg.DatabasePath = c.DatabasePath
	}
	if c.DriveID != "" {
		cfg.DriveID = c.DriveID
	}
	if c.OwnerID != "" {
		cfg.OwnerID = c.OwnerID
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
}

// Load reads and decodes the TOML config file at path over a fresh
// DefaultConfig, then validates the result. An absent path is not an
// error — callers that want a file to be mandatory should stat it first.
func Load(path string, logger *slog.Logger) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if logger != nil {
			logger.Debug("config file not found, using defaults", "path", path)
		}

		return cfg, nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := mergeFileConfig(cfg, fc); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeFileConfig layers a decoded TOML file over cfg in place, parsing
// its string duration fields and leaving any field the file omitted at
// cfg's current (default) value.
func mergeFileConfig(cfg *Config, fc fileConfig) error {
	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}
	if fc.DatabasePath != "" {
		cfg.DatabasePath = fc.DatabasePath
	}
	if fc.DriveID != "" {
		cfg.DriveID = fc.DriveID
	}
	if fc.OwnerID != "" {
		cfg.OwnerID = fc.OwnerID
	}
	if fc.KeepBothSuffixFormat != "" {
		cfg.KeepBothSuffixFormat = fc.KeepBothSuffixFormat
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.PersistClaimedIDs != nil {
		cfg.PersistClaimedIDs = *fc.PersistClaimedIDs
	}

	var err error
	if cfg.ClockSkewTolerance, err = parseDurationOr(fc.ClockSkewTolerance, cfg.ClockSkewTolerance); err != nil {
		return fmt.Errorf("clock_skew_tolerance: %w", err)
	}
	if cfg.WebhookDispatchTimeout, err = parseDurationOr(fc.WebhookDispatchTimeout, cfg.WebhookDispatchTimeout); err != nil {
		return fmt.Errorf("webhook_dispatch_timeout: %w", err)
	}
	if cfg.ReindexRateLimit, err = parseDurationOr(fc.ReindexRateLimit, cfg.ReindexRateLimit); err != nil {
		return fmt.Errorf("reindex_rate_limit: %w", err)
	}

	return nil
}

func parseDurationOr(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	return time.ParseDuration(raw)
}

func validate(cfg *Config) error {
	if cfg.ClockSkewTolerance <= 0 {
		return fmt.Errorf("config: clock_skew_tolerance must be positive")
	}
	if cfg.WebhookDispatchTimeout <= 0 {
		return fmt.Errorf("config: webhook_dispatch_timeout must be positive")
	}
	if cfg.ReindexRateLimit < 0 {
		return fmt.Errorf("config: reindex_rate_limit must not be negative")
	}
	if cfg.KeepBothSuffixFormat == "" {
		return fmt.Errorf("config: keep_both_suffix_format must not be empty")
	}

	return nil
}

// ResolveConfigPath implements the teacher's CLI > env > default priority
// for locating the config file itself, one layer up from the Config
// fields Resolve below handles.
func ResolveConfigPath(envPath, cliPath string) string {
	if cliPath != "" {
		return cliPath
	}
	if envPath != "" {
		return envPath
	}

	return "drive-engine.toml"
}

// Resolve runs the full four-layer chain — defaults, config file at path,
// environment, CLI flags — and returns the fully resolved, validated
// Config a drive engine process runs with (spec Ambient Stack,
// "Configuration").
func Resolve(path string, env EnvOverrides, cli CLIOverrides, logger *slog.Logger) (*Config, error) {
	cfg, err := Load(path, logger)
	if err != nil {
		return nil, err
	}

	env.apply(cfg)
	cli.apply(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if cfg.DriveID == "" {
		return nil, fmt.Errorf("config: drive_id is required")
	}
	if cfg.OwnerID == "" {
		return nil, fmt.Errorf("config: owner_id is required")
	}

	return cfg, nil
}
